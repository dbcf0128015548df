package http

import (
	"github.com/mcharkviani/library/internal/auth"
	"github.com/mcharkviani/library/internal/authors"
	"github.com/mcharkviani/library/internal/books"
	"github.com/mcharkviani/library/internal/database"
	"github.com/mcharkviani/library/internal/readingprogress"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Database        *database.Database
	AuthorService   *authors.Service
	BookService     *books.Service
	ProgressService *readingprogress.Service

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	// Application info
	Version string
}
