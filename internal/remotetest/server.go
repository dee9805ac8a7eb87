// Package remotetest runs an in-process fake of the storefront backend for
// tests: bcrypt-checked admin password, an HS256 JWT session cookie, JSON
// product listing, and multipart create/update mutations. It mirrors the
// remote contract exactly so client and controller tests exercise the real
// wire formats.
package remotetest

import (
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
)

const sessionCookie = "session"

// Server is a fake storefront backend bound to an httptest listener.
type Server struct {
	srv          *httptest.Server
	passwordHash []byte
	jwtSecret    []byte

	mu         sync.Mutex
	nextID     int64
	products   map[int64]domain.Product
	listStatus int // when non-zero, GET /api/products answers with it
}

// NewServer starts a fake backend accepting the given admin password.
// Callers must Close it.
func NewServer(password string) *Server {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("remotetest: hashing password: %v", err))
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic(fmt.Sprintf("remotetest: jwt secret: %v", err))
	}

	s := &Server{
		passwordHash: hash,
		jwtSecret:    secret,
		nextID:       1,
		products:     make(map[int64]domain.Product),
	}

	e := echo.New()
	e.HideBanner = true

	e.GET("/api/products", s.handleList)
	e.POST("/api/admin/login", s.handleLogin)
	e.POST("/api/admin/logout", s.handleLogout)

	admin := e.Group("/api/admin/products", s.requireSession)
	admin.POST("", s.handleCreate)
	admin.PUT("/:id", s.handleUpdate)
	admin.DELETE("/:id", s.handleDelete)

	s.srv = httptest.NewServer(e)
	return s
}

// URL is the backend's base URL.
func (s *Server) URL() string { return s.srv.URL }

// Close shuts the listener down.
func (s *Server) Close() { s.srv.Close() }

// Seed inserts products directly, bypassing auth. For test setup.
func (s *Server) Seed(products ...domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		if p.ID == 0 {
			p.ID = s.nextID
		}
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
		if p.CreatedAt == "" {
			p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
		}
		s.products[p.ID] = p
	}
}

// Products returns the stored records ordered by id. For test assertions.
func (s *Server) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ordered()
}

// SetListStatus forces GET /api/products to answer with the given status.
// Zero restores normal behaviour.
func (s *Server) SetListStatus(code int) {
	s.mu.Lock()
	s.listStatus = code
	s.mu.Unlock()
}

func (s *Server) ordered() []domain.Product {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) handleList(c echo.Context) error {
	s.mu.Lock()
	forced := s.listStatus
	products := s.ordered()
	s.mu.Unlock()

	if forced != 0 {
		return c.JSON(forced, map[string]string{"error": "forced failure"})
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "wrong password"})
	}

	claims := jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "token"})
	}

	c.SetCookie(&http.Cookie{Name: sessionCookie, Value: token, Path: "/"})
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogout(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// requireSession validates the JWT session cookie and rejects mutations
// without one, exactly as the real backend answers 401.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
		}
		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return s.jwtSecret, nil
		})
		if err != nil || !tkn.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}
		return next(c)
	}
}

func (s *Server) handleCreate(c echo.Context) error {
	name := c.FormValue("name")
	priceRaw := c.FormValue("price")
	if name == "" || priceRaw == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "name and price are required")
	}
	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil || price < 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid price")
	}

	image, err := s.readImage(c)
	if err != nil {
		return err
	}
	if image == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "image is required")
	}

	p := domain.Product{
		Name:      name,
		Price:     price,
		Image:     image,
		Category:  c.FormValue("category"),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if desc, ok := formValueSet(c, "description"); ok {
		p.Description = &desc
	}

	s.mu.Lock()
	p.ID = s.nextID
	s.nextID++
	s.products[p.ID] = p
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, p)
}

func (s *Server) handleUpdate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown product")
	}

	s.mu.Lock()
	p, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown product")
	}

	if name := c.FormValue("name"); name != "" {
		p.Name = name
	}
	if priceRaw := c.FormValue("price"); priceRaw != "" {
		price, err := strconv.ParseFloat(priceRaw, 64)
		if err != nil || price < 0 {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid price")
		}
		p.Price = price
	}
	if desc, ok := formValueSet(c, "description"); ok {
		p.Description = &desc
	}
	image, err := s.readImage(c)
	if err != nil {
		return err
	}
	if image != "" {
		// No image part means: keep the current one.
		p.Image = image
	}

	s.mu.Lock()
	s.products[id] = p
	s.mu.Unlock()

	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleDelete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown product")
	}

	s.mu.Lock()
	_, ok := s.products[id]
	delete(s.products, id)
	s.mu.Unlock()

	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown product")
	}
	return c.NoContent(http.StatusOK)
}

// readImage consumes the optional image part and returns its stored
// source-relative path, or "" when the part is absent.
func (s *Server) readImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	src, err := file.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnprocessableEntity, "unreadable image")
	}
	defer src.Close()
	if _, err := io.Copy(io.Discard, src); err != nil {
		return "", echo.NewHTTPError(http.StatusUnprocessableEntity, "unreadable image")
	}
	return "/uploads/" + file.Filename, nil
}

func formValueSet(c echo.Context, field string) (string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		return "", false
	}
	values, ok := form.Value[field]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
