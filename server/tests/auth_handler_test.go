package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"filebin/server/models/auth"
	"filebin/server/models/user"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// Ensure MockUserRepository implements user.Repository
var _ user.Repository = (*MockUserRepository)(nil)

func setupAuthTestHandler() (*auth.Handler, *MockUserRepository) {
	mockRepo := NewMockUserRepository()
	jwtService := newTestJWTService(time.Hour)
	handler := auth.NewHandler(mockRepo, jwtService, nil)
	return handler, mockRepo
}

func createAuthTestContext(e *echo.Echo, method, path string, payload interface{}) (echo.Context, *httptest.ResponseRecorder) {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegister_Success(t *testing.T) {
	handler, mockRepo := setupAuthTestHandler()

	e := echo.New()
	c, rec := createAuthTestContext(e, http.MethodPost, "/register", auth.RegisterRequest{
		Username: "testuser",
		Password: "Password1",
	})

	if err := handler.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	if _, exists := mockRepo.GetUserByUsername("testuser"); !exists {
		t.Error("Expected user to be created")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	handler, mockRepo := setupAuthTestHandler()
	mockRepo.AddUser(&user.User{ID: 1, Username: "testuser", Password: "x"})

	e := echo.New()
	c, rec := createAuthTestContext(e, http.MethodPost, "/register", auth.RegisterRequest{
		Username: "testuser",
		Password: "Password1",
	})

	if err := handler.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	handler, _ := setupAuthTestHandler()

	e := echo.New()
	c, rec := createAuthTestContext(e, http.MethodPost, "/register", auth.RegisterRequest{
		Username: "testuser",
		Password: "short",
	})

	if err := handler.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestRegister_InvalidUsername(t *testing.T) {
	handler, _ := setupAuthTestHandler()

	e := echo.New()
	c, rec := createAuthTestContext(e, http.MethodPost, "/register", auth.RegisterRequest{
		Username: "bad user!",
		Password: "Password1",
	})

	if err := handler.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	handler, mockRepo := setupAuthTestHandler()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.DefaultCost)
	mockRepo.AddUser(&user.User{ID: 1, Username: "testuser", Password: string(hashed)})

	e := echo.New()
	c, rec := createAuthTestContext(e, http.MethodPost, "/login", auth.LoginRequest{
		Username: "testuser",
		Password: "Password1",
	})

	if err := handler.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response auth.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if response.Token == "" {
		t.Error("Expected non-empty token")
	}

	// Successful login stamps last_login_at
	u, _ := mockRepo.GetUserByUsername("testuser")
	if u.LastLoginAt == nil {
		t.Error("Expected LastLoginAt to be set after login")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	handler, mockRepo := setupAuthTestHandler()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.DefaultCost)
	mockRepo.AddUser(&user.User{ID: 1, Username: "testuser", Password: string(hashed)})

	e := echo.New()
	c, rec := createAuthTestContext(e, http.MethodPost, "/login", auth.LoginRequest{
		Username: "testuser",
		Password: "WrongPassword1",
	})

	if err := handler.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	handler, _ := setupAuthTestHandler()

	e := echo.New()
	c, rec := createAuthTestContext(e, http.MethodPost, "/login", auth.LoginRequest{
		Username: "nobody",
		Password: "Password1",
	})

	if err := handler.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestMe(t *testing.T) {
	handler, _ := setupAuthTestHandler()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &auth.TokenClaims{UserID: 7, Username: "testuser"})

	if err := handler.Me(c); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}

	var response map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &response)
	if id, _ := response["user_id"].(float64); int64(id) != 7 {
		t.Errorf("Expected user_id 7, got %v", response["user_id"])
	}
}
