package packagedelivery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/ncibb/credit-ledger/internal/domain"
	"github.com/ncibb/credit-ledger/pkg/errorspkg"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func testServer(t *testing.T, h Handler) *gin.Engine {
	t.Helper()

	server := gin.New()
	server.GET("/credits/packages", h.List)
	server.GET("/credits/packages/:id", h.Get)

	return server
}

func testPackage(id int32) domain.CreditPackage {
	return domain.CreditPackage{
		ID:          id,
		Name:        "Starter",
		Description: "Small credit bundle",
		Credits:     "100.00",
		Price:       "9.99",
		IsActive:    true,
		CreatedAt:   time.Now().Truncate(time.Second).UTC(),
	}
}

func TestListPackagesAPI(t *testing.T) {
	packages := []domain.CreditPackage{testPackage(1), testPackage(2)}

	testCases := []struct {
		name          string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			buildStubs: func(service *MockService) {
				service.EXPECT().List(gomock.Any()).
					Times(1).
					Return(packages, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var got struct {
					Data packagesData `json:"data"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
				require.Equal(t, packages, got.Data.Packages)
			},
		},
		{
			name: "InternalError",
			buildStubs: func(service *MockService) {
				service.EXPECT().List(gomock.Any()).
					Times(1).
					Return(nil, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			handler := NewHandler(service)
			server := testServer(t, handler)

			recorder := httptest.NewRecorder()
			request, err := http.NewRequest(http.MethodGet, "/credits/packages", nil)
			require.NoError(t, err)

			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}

func TestGetPackageAPI(t *testing.T) {
	pack := testPackage(1)

	testCases := []struct {
		name          string
		id            string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "OK",
			id:   "1",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Eq(int32(1))).
					Times(1).
					Return(pack, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var got struct {
					Data packageData `json:"data"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
				require.Equal(t, pack, got.Data.Package)
			},
		},
		{
			name: "InvalidID",
			id:   "0",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "NotFound",
			id:   "777",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Eq(int32(777))).
					Times(1).
					Return(domain.CreditPackage{}, domain.ErrPackageNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "InternalError",
			id:   "1",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Eq(int32(1))).
					Times(1).
					Return(domain.CreditPackage{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			handler := NewHandler(service)
			server := testServer(t, handler)

			recorder := httptest.NewRecorder()
			request, err := http.NewRequest(http.MethodGet, fmt.Sprintf("/credits/packages/%s", tc.id), nil)
			require.NoError(t, err)

			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}
