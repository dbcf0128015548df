package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mcharkviani/library/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved;
	// session runs after CSRF so its context isn't overwritten by CSRF's
	// request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Auth routes
	if cfg.AuthService != nil {
		authController := auth.NewController(cfg.AuthService, cfg.SessionManager)
		authController.RegisterRoutes(router)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	authorsController := NewAuthorsController(cfg.AuthorService)
	booksController := NewBooksController(cfg.BookService)
	userBooksController := NewUserBooksController(cfg.ProgressService)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Author endpoints
	router.POST("/api/authors", authorsController.CreateAuthor)
	router.GET("/api/authors", authorsController.ListAuthors)
	router.GET("/api/authors/:id", authorsController.GetAuthor)
	router.PATCH("/api/authors/:id", authorsController.UpdateAuthor)
	router.DELETE("/api/authors/:id", authorsController.DeleteAuthor)

	// Book endpoints
	router.POST("/api/books", booksController.CreateBook)
	router.GET("/api/books", booksController.ListBooks)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PATCH("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)

	// Book page endpoints
	router.POST("/api/books/:id/pages", booksController.CreateBookPage)
	router.GET("/api/books/:id/pages/min", booksController.GetMinBookPage)
	router.GET("/api/books/:id/pages/:page", booksController.GetBookPage)
	router.PATCH("/api/pages/:pageId", booksController.UpdateBookPage)
	router.DELETE("/api/pages/:pageId", booksController.DeleteBookPage)

	// Reading progress endpoints
	router.POST("/api/user-books", userBooksController.AttachBook)
	router.POST("/api/user-books/:bookId/turn-page", userBooksController.TurnPage)

	return router
}
