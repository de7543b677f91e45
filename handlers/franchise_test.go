package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"franchise-api/models"
	"franchise-api/services"
	"franchise-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// brokenRepository fails every call with the same infrastructure error.
type brokenRepository struct{ err error }

func (b brokenRepository) Save(context.Context, models.Franchise) (models.Franchise, error) {
	return models.Franchise{}, b.err
}
func (b brokenRepository) FindByID(context.Context, string) (models.Franchise, bool, error) {
	return models.Franchise{}, false, b.err
}
func (b brokenRepository) FindAll(context.Context) ([]models.Franchise, error) { return nil, b.err }
func (b brokenRepository) DeleteByID(context.Context, string) error            { return b.err }

func TestCreateFranchise(t *testing.T) {
	router := setupFranchiseRouter(store.NewMemoryRepository())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/franchises", map[string]interface{}{"name": "Burger Co"}))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	f := parseFranchise(t, w)
	if f.ID == "" {
		t.Error("expected id to be assigned")
	}
	if f.Name != "Burger Co" {
		t.Errorf("expected name 'Burger Co', got %q", f.Name)
	}
	if len(f.Branches) != 0 {
		t.Errorf("expected no branches, got %d", len(f.Branches))
	}
	if !strings.Contains(w.Body.String(), `"branches":[]`) {
		t.Errorf("expected empty branches array in body, got %s", w.Body.String())
	}
}

func TestCreateFranchiseBlankName(t *testing.T) {
	router := setupFranchiseRouter(store.NewMemoryRepository())

	for _, body := range []map[string]interface{}{{}, {"name": ""}, {"name": "   "}} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/franchises", body))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %v: expected status 400, got %d", body, w.Code)
		}
		resp := parseResponse(w)
		if resp["error"] != "Validation Failed" {
			t.Errorf("expected 'Validation Failed', got %v", resp["error"])
		}
		fields, _ := resp["validationErrors"].(map[string]interface{})
		if fields["name"] == nil {
			t.Errorf("expected name validation error, got %v", resp)
		}
	}
}

func TestCreateFranchiseMalformedJSON(t *testing.T) {
	router := setupFranchiseRouter(store.NewMemoryRepository())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, rawRequest("POST", "/api/franchises", `{"name":`))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if parseResponse(w)["message"] != "Invalid request body" {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestListFranchises(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/franchises", nil))
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %d: %s", w.Code, w.Body.String())
	}

	seedFranchise(t, repo, "Franchise A")
	seedFranchise(t, repo, "Franchise B")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/franchises", nil))

	result := parseResponseArray(w)
	if len(result) != 2 {
		t.Errorf("expected 2 franchises, got %d", len(result))
	}
}

func TestGetFranchiseByID(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)
	franchise := seedFranchise(t, repo, "My Franchise")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", fmt.Sprintf("/api/franchises/%s", franchise.ID), nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["name"] != "My Franchise" {
		t.Errorf("expected name 'My Franchise', got %v", resp["name"])
	}
}

func TestGetFranchiseNotFound(t *testing.T) {
	router := setupFranchiseRouter(store.NewMemoryRepository())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/franchises/unknown", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["status"] != float64(404) || resp["error"] != "Not Found" {
		t.Errorf("unexpected error body %v", resp)
	}
	if resp["message"] != "Franchise not found with id: unknown" {
		t.Errorf("unexpected message %v", resp["message"])
	}
	if resp["timestamp"] == nil {
		t.Error("expected timestamp")
	}
}

func TestUpdateFranchiseName(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)
	franchise := seedFranchise(t, repo, "Old Name")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", "/api/franchises/"+franchise.ID+"/name", map[string]interface{}{"name": "New Name"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if parseResponse(w)["name"] != "New Name" {
		t.Errorf("expected name 'New Name', got %s", w.Body.String())
	}
}

func TestAddBranch(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)
	franchise := seedFranchise(t, repo, "F")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/franchises/"+franchise.ID+"/branches", map[string]interface{}{"name": "Norte"}))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	f := parseFranchise(t, w)
	if len(f.Branches) != 2 || f.Branches[1].Name != "Norte" || f.Branches[1].ID == "" {
		t.Errorf("expected new branch appended, got %+v", f.Branches)
	}
}

func TestAddBranchUnknownFranchise(t *testing.T) {
	router := setupFranchiseRouter(store.NewMemoryRepository())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/franchises/nope/branches", map[string]interface{}{"name": "Norte"}))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateBranchName(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)
	franchise := seedFranchise(t, repo, "F")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", "/api/franchises/"+franchise.ID+"/branches/b1/name", map[string]interface{}{"name": "Sur"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if parseFranchise(t, w).Branches[0].Name != "Sur" {
		t.Errorf("branch not renamed: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", "/api/franchises/"+franchise.ID+"/branches/zz/name", map[string]interface{}{"name": "Sur"}))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
	if parseResponse(w)["message"] != "Branch not found with id: zz" {
		t.Errorf("unexpected message %s", w.Body.String())
	}
}

func TestAddProduct(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)
	franchise := seedFranchise(t, repo, "F")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/franchises/"+franchise.ID+"/branches/b1/products",
		map[string]interface{}{"name": "Shake", "stock": 0}))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	products := parseFranchise(t, w).Branches[0].Products
	if len(products) != 3 || products[2].Name != "Shake" || products[2].Stock != 0 {
		t.Errorf("expected product appended, got %+v", products)
	}
}

func TestAddProductValidation(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)
	franchise := seedFranchise(t, repo, "F")
	url := "/api/franchises/" + franchise.ID + "/branches/b1/products"

	cases := map[string]map[string]interface{}{
		"stock":         {"name": "Shake", "stock": -1},
		"missing stock": {"name": "Shake"},
		"name":          {"stock": 4},
	}
	for label, body := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", url, body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", label, w.Code)
		}
	}

	stored, _, _ := repo.FindByID(context.Background(), franchise.ID)
	if len(stored.Branches[0].Products) != 2 {
		t.Error("rejected requests must not change the aggregate")
	}
}

func TestDeleteProduct(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)
	franchise := seedFranchise(t, repo, "F")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/franchises/"+franchise.ID+"/branches/b1/products/p1", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", w.Code, w.Body.String())
	}

	stored, _, _ := repo.FindByID(context.Background(), franchise.ID)
	if len(stored.Branches[0].Products) != 1 || stored.Branches[0].Products[0].ID != "p2" {
		t.Errorf("unexpected products after delete %+v", stored.Branches[0].Products)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/franchises/"+franchise.ID+"/branches/b1/products/p1", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for repeated delete, got %d", w.Code)
	}
	if parseResponse(w)["message"] != "Product not found with id: p1" {
		t.Errorf("unexpected message %s", w.Body.String())
	}
}

func TestUpdateProductStock(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)
	franchise := seedFranchise(t, repo, "F")
	url := "/api/franchises/" + franchise.ID + "/branches/b1/products/p1/stock"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PUT", url, map[string]interface{}{"stock": 300}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if parseFranchise(t, w).Branches[0].Products[0].Stock != 300 {
		t.Errorf("stock not updated: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PUT", url, map[string]interface{}{"stock": -2}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	stored, _, _ := repo.FindByID(context.Background(), franchise.ID)
	if stored.Branches[0].Products[0].Stock != 300 {
		t.Errorf("expected stock to stay 300, got %d", stored.Branches[0].Products[0].Stock)
	}
}

func TestUpdateProductStockUnknownProduct(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)
	franchise := seedFranchise(t, repo, "F")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PUT", "/api/franchises/"+franchise.ID+"/branches/b1/products/nope/stock",
		map[string]interface{}{"stock": 1}))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestUpdateProductName(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)
	franchise := seedFranchise(t, repo, "F")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", "/api/franchises/"+franchise.ID+"/branches/b1/products/p2/name",
		map[string]interface{}{"name": "Diet Cola"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if parseFranchise(t, w).Branches[0].Products[1].Name != "Diet Cola" {
		t.Errorf("product not renamed: %s", w.Body.String())
	}
}

func TestGetTopProducts(t *testing.T) {
	repo := store.NewMemoryRepository()
	router := setupFranchiseRouter(repo)
	franchise := seedFranchise(t, repo, "F")
	franchise.AddBranch(models.Branch{ID: "b2", Name: "Norte", Products: []models.Product{{ID: "p3", Name: "Burger", Stock: 150}}})
	franchise.AddBranch(models.Branch{ID: "b3", Name: "Vacia", Products: []models.Product{}})
	repo.Save(context.Background(), franchise)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/franchises/"+franchise.ID+"/top-products", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	result := parseResponseArray(w)
	if len(result) != 2 {
		t.Fatalf("expected 2 entries, got %d: %s", len(result), w.Body.String())
	}
	first := result[0].(map[string]interface{})
	second := result[1].(map[string]interface{})
	if first["branchId"] != "b1" || first["productId"] != "p2" || first["stock"] != float64(100) {
		t.Errorf("unexpected first entry %v", first)
	}
	if first["branchName"] != "Centro" || first["productName"] != "Cola" {
		t.Errorf("unexpected names in first entry %v", first)
	}
	if second["branchId"] != "b2" || second["stock"] != float64(150) {
		t.Errorf("unexpected second entry %v", second)
	}
}

func TestStoreFailureIs500(t *testing.T) {
	router := setupFranchiseRouter(brokenRepository{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/franchises/any", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp["error"] != "Internal Server Error" {
		t.Errorf("unexpected error %v", resp["error"])
	}
	msg, _ := resp["message"].(string)
	if !strings.Contains(msg, "An unexpected error occurred") || !strings.Contains(msg, "connection refused") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestRespondErrorInvalidArgument(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("PUT", "/", nil)

	p := models.Product{Stock: 1}
	respondError(c, zap.NewNop(), p.SetStock(-1))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp["error"] != "Bad Request" || resp["message"] != "Stock cannot be negative" {
		t.Errorf("unexpected body %v", resp)
	}
}

func TestTopProductResponsesFlattensProduct(t *testing.T) {
	out := topProductResponses([]services.TopProduct{
		{BranchID: "b1", BranchName: "Centro", Product: models.Product{ID: "p2", Name: "Cola", Stock: 100}},
	})
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	got := out[0]
	if got.BranchID != "b1" || got.BranchName != "Centro" || got.ProductID != "p2" || got.ProductName != "Cola" || got.Stock != 100 {
		t.Errorf("unexpected response %+v", got)
	}

	if empty := topProductResponses(nil); empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", empty)
	}
}
