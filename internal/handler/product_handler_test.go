package handler

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"clothing-store/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input *model.ProductInput, images []model.ImageUpload) (*model.Product, error) {
	args := m.Called(ctx, input, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, update *model.ProductUpdate, images []model.ImageUpload) (*model.Product, error) {
	args := m.Called(ctx, id, update, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// withURLParam attaches a chi route parameter to r.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type filePart struct {
	name        string
	contentType string
	data        []byte
}

// multipartBody encodes fields (repeated keys allowed) and image parts.
func multipartBody(t *testing.T, fields [][2]string, files []filePart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		require.NoError(t, mw.WriteField(f[0], f[1]))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="images"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestProductHandler_List(t *testing.T) {
	products := []model.Product{
		{ID: "P002", Name: "Hoodie", Price: 25, CreatedAt: time.Now()},
		{ID: "P001", Name: "Tee", Price: 20, CreatedAt: time.Now()},
	}

	tests := []struct {
		name           string
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
		expectedError  string
	}{
		{name: "Success", mockReturn: products, expectedStatus: http.StatusOK},
		{
			name:           "Service error",
			mockError:      model.NewStorageError("Error fetching products", errors.New("db down")),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Error fetching products",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			svc.On("List", mock.Anything).Return(tt.mockReturn, tt.mockError)

			w := httptest.NewRecorder()
			NewProductHandler(svc, false, zerolog.Nop()).List(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			if tt.expectedError != "" {
				resp := decodeError(t, w)
				assert.Equal(t, tt.expectedError, resp.Error)
				assert.Empty(t, resp.Message)
			} else {
				var got []model.Product
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Len(t, got, 2)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
	}{
		{name: "Found", id: "P001", mockReturn: &model.Product{ID: "P001"}, expectedStatus: http.StatusOK},
		{name: "Not found", id: "nope", mockError: model.ErrProductNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			if tt.mockReturn != nil {
				svc.On("GetByID", mock.Anything, tt.id).Return(tt.mockReturn, nil)
			} else {
				svc.On("GetByID", mock.Anything, tt.id).Return(nil, tt.mockError)
			}

			r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/products/"+tt.id, nil), "id", tt.id)
			w := httptest.NewRecorder()
			NewProductHandler(svc, false, zerolog.Nop()).Get(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.mockError != nil {
				assert.Equal(t, "Product not found", decodeError(t, w).Error)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("Parses form and images", func(t *testing.T) {
		body, contentType := multipartBody(t, [][2]string{
			{"name", "Classic Tee"},
			{"description", "Cotton"},
			{"price", "19.99"},
			{"category", "tops"},
			{"colors", "Red, Blue"},
			{"inStock", "false"},
			{"stockQuantity", "4"},
		}, []filePart{{"front.png", "image/png", []byte("png")}})

		svc := new(MockProductService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(in *model.ProductInput) bool {
			return in.Name == "Classic Tee" && *in.Price == 19.99 && in.Category == "tops" &&
				len(in.Colors) == 2 && !*in.InStock && *in.StockQuantity == 4
		}), mock.MatchedBy(func(images []model.ImageUpload) bool {
			return len(images) == 1 && images[0].Filename == "front.png" &&
				images[0].ContentType == "image/png" && string(images[0].Data) == "png"
		})).Return(&model.Product{ID: "P-new", Name: "Classic Tee"}, nil)

		r := httptest.NewRequest(http.MethodPost, "/api/products", body)
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		NewProductHandler(svc, false, zerolog.Nop()).Create(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Only five images reach the service", func(t *testing.T) {
		files := make([]filePart, 6)
		for i := range files {
			files[i] = filePart{"img.jpg", "image/jpeg", []byte{byte(i)}}
		}
		body, contentType := multipartBody(t, [][2]string{
			{"name", "Tee"}, {"description", "d"}, {"price", "1"}, {"category", "c"},
		}, files)

		svc := new(MockProductService)
		svc.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(images []model.ImageUpload) bool {
			return len(images) == model.MaxProductImages
		})).Return(&model.Product{ID: "P-new"}, nil)

		r := httptest.NewRequest(http.MethodPost, "/api/products", body)
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		NewProductHandler(svc, false, zerolog.Nop()).Create(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Unparseable price", func(t *testing.T) {
		body, contentType := multipartBody(t, [][2]string{{"name", "Tee"}, {"price", "cheap"}}, nil)

		svc := new(MockProductService)
		r := httptest.NewRequest(http.MethodPost, "/api/products", body)
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		NewProductHandler(svc, false, zerolog.Nop()).Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrInvalidPrice.Message, decodeError(t, w).Error)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Validation error from service", func(t *testing.T) {
		body, contentType := multipartBody(t, [][2]string{{"name", "Tee"}}, nil)

		svc := new(MockProductService)
		svc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, model.ErrMissingProductFields)

		r := httptest.NewRequest(http.MethodPost, "/api/products", body)
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		NewProductHandler(svc, false, zerolog.Nop()).Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrMissingProductFields.Message, decodeError(t, w).Error)
	})
}

func TestProductHandler_Update(t *testing.T) {
	t.Run("Partial fields and kept images", func(t *testing.T) {
		body, contentType := multipartBody(t, [][2]string{
			{"price", "25"},
			{"name", "   "},
			{"existingImages", `["data:image/png;base64,a","data:image/png;base64,b"]`},
		}, nil)

		svc := new(MockProductService)
		svc.On("Update", mock.Anything, "P001", mock.MatchedBy(func(u *model.ProductUpdate) bool {
			return u.Name == nil && u.Price != nil && *u.Price == 25 &&
				u.ExistingImages != nil && len(*u.ExistingImages) == 2 && u.Colors == nil && u.InStock == nil
		}), mock.Anything).Return(&model.Product{ID: "P001", Price: 25}, nil)

		r := httptest.NewRequest(http.MethodPut, "/api/products/P001", body)
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		NewProductHandler(svc, false, zerolog.Nop()).Update(w, withURLParam(r, "id", "P001"))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Malformed JSON list", func(t *testing.T) {
		body, contentType := multipartBody(t, [][2]string{{"existingImages", `["unterminated`}}, nil)

		svc := new(MockProductService)
		r := httptest.NewRequest(http.MethodPut, "/api/products/P001", body)
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		NewProductHandler(svc, false, zerolog.Nop()).Update(w, withURLParam(r, "id", "P001"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		body, contentType := multipartBody(t, [][2]string{{"price", "25"}}, nil)

		svc := new(MockProductService)
		svc.On("Update", mock.Anything, "gone", mock.Anything, mock.Anything).Return(nil, model.ErrProductNotFound)

		r := httptest.NewRequest(http.MethodPut, "/api/products/gone", body)
		r.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		NewProductHandler(svc, false, zerolog.Nop()).Update(w, withURLParam(r, "id", "gone"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductHandler_Delete(t *testing.T) {
	tests := []struct {
		name            string
		mockError       error
		expectedStatus  int
		expectedMessage string
	}{
		{name: "Deleted", expectedStatus: http.StatusOK, expectedMessage: "Product deleted successfully"},
		{name: "Not found", mockError: model.ErrProductNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			svc.On("Delete", mock.Anything, "P001").Return(tt.mockError)

			r := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/products/P001", nil), "id", "P001")
			w := httptest.NewRecorder()
			NewProductHandler(svc, false, zerolog.Nop()).Delete(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedMessage != "" {
				var resp MessageResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMessage, resp.Message)
			}
			svc.AssertExpectations(t)
		})
	}
}
