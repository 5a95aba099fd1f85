// Package server exposes the Billed store API over JSON/HTTP:
// login, bill listing and creation, and receipt upload.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/billed-app/billed/internal/auth"
	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/newbill"
	"github.com/billed-app/billed/internal/storage"
	"github.com/billed-app/billed/internal/store"
)

// maxUploadBytes caps receipt uploads. Receipts are photos, not archives.
const maxUploadBytes = 10 << 20

// Server holds the handler dependencies.
type Server struct {
	store     storage.Store
	authn     *auth.PasswordAuthenticator
	jwt       *auth.JWTManager
	uploadDir string
}

// New creates a Server persisting to st, issuing tokens with jwtManager and
// storing uploaded receipts under uploadDir.
func New(st storage.Store, jwtManager *auth.JWTManager, uploadDir string) *Server {
	return &Server{
		store:     st,
		authn:     auth.NewPasswordAuthenticator(st),
		jwt:       jwtManager,
		uploadDir: uploadDir,
	}
}

// Handler returns the fully wired HTTP handler: routes plus logging, CORS
// and metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("GET /bills", s.requireAuth(http.HandlerFunc(s.handleListBills)))
	mux.Handle("POST /bills", s.requireAuth(http.HandlerFunc(s.handleCreateBill)))
	mux.Handle("POST /files", s.requireAuth(http.HandlerFunc(s.handleUploadFile)))
	mux.Handle("GET /files/", http.StripPrefix("/files/", http.FileServer(http.Dir(s.uploadDir))))
	mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(corsMiddleware(metricsMiddleware(mux)))
}

// loginRequest is the body of POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.authn.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		slog.Error("login failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("token generation failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	slog.Info("user logged in", "email", user.Email, "type", user.Type)
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  models.Session{Type: user.Type, Email: user.Email},
	})
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())

	bills, err := s.store.ListBillsByEmail(r.Context(), session.Email)
	if err != nil {
		slog.Error("listing bills failed", "email", session.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur 500")
		return
	}
	if bills == nil {
		bills = []models.Bill{}
	}

	writeJSON(w, http.StatusOK, bills)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	session := GetSession(r.Context())

	var bill models.Bill
	if err := json.NewDecoder(r.Body).Decode(&bill); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if bill.Type == "" || bill.Name == "" || bill.Date == "" || bill.Amount.IsZero() {
		writeError(w, http.StatusBadRequest, "type, name, date and amount are required")
		return
	}

	// The session decides ownership and every new submission starts pending,
	// whatever the client sent.
	bill.ID = ""
	bill.Email = session.Email
	bill.Status = models.StatusPending

	if err := s.store.CreateBill(r.Context(), &bill); err != nil {
		slog.Error("creating bill failed", "email", session.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur 500")
		return
	}

	slog.Info("bill created", "bill_id", bill.ID, "email", bill.Email)
	writeJSON(w, http.StatusCreated, bill)
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	candidate := &store.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
	if !newbill.IsValidFile(candidate) {
		writeError(w, http.StatusUnsupportedMediaType, "only .jpg, .jpeg and .png receipts are accepted")
		return
	}

	// Stored under a fresh name so colliding client filenames never
	// overwrite each other.
	stored := uuid.New().String() + strings.ToLower(filepath.Ext(header.Filename))
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		slog.Error("creating upload dir failed", "dir", s.uploadDir, "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur 500")
		return
	}

	dst, err := os.Create(filepath.Join(s.uploadDir, stored))
	if err != nil {
		slog.Error("creating upload failed", "file", stored, "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur 500")
		return
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(file); err != nil {
		slog.Error("writing upload failed", "file", stored, "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur 500")
		return
	}

	slog.Info("file uploaded", "file", header.Filename, "stored_as", stored)
	writeJSON(w, http.StatusCreated, store.Upload{
		FileURL:  "/files/" + stored,
		FileName: header.Filename,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all incoming requests.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
