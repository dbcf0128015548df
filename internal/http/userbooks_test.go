package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcharkviani/library/internal/auth"
	"github.com/mcharkviani/library/internal/books"
)

// userBooksRouter registers the reading progress routes behind a stub that
// injects the test user, standing in for the auth middleware.
func (env *httpTestEnv) userBooksRouter() *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(auth.ContextKeyUserID, env.userID)
		c.Next()
	})

	controller := NewUserBooksController(env.progress)
	router.POST("/api/user-books", controller.AttachBook)
	router.POST("/api/user-books/:bookId/turn-page", controller.TurnPage)
	return router
}

func TestUserBooksController(t *testing.T) {
	t.Run("attach then read", func(t *testing.T) {
		env, cleanup := setupHTTPTest(t)
		defer cleanup()
		env.router = env.userBooksRouter()
		authorID := env.createAuthor(t)

		book, err := env.books.CreateBook(books.CreateBookParams{
			Title: "Session", ISBN: "session", TotalPages: 500, AuthorID: authorID,
			Pages: []books.PageParams{
				{Page: 1, Content: "A"},
				{Page: 2, Content: "B"},
			},
		})
		require.NoError(t, err)

		w := env.request(t, "POST", "/api/user-books", gin.H{"bookId": book.ID})
		require.Equal(t, http.StatusCreated, w.Code)

		var cursor map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cursor))
		assert.Equal(t, float64(1), cursor["last_page_user_looked_at"])

		// Empty body: read at the cursor
		w = env.request(t, "POST", "/api/user-books/"+book.ID+"/turn-page", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"currentPage": {"page": 1, "content": "A"}, "nextPage": 2}`, w.Body.String())

		// Explicit jump to the last page
		w = env.request(t, "POST", "/api/user-books/"+book.ID+"/turn-page", gin.H{"page": 2})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"currentPage": {"page": 2, "content": "B"}, "nextPage": null}`, w.Body.String())
	})

	t.Run("attach requires pages", func(t *testing.T) {
		env, cleanup := setupHTTPTest(t)
		defer cleanup()
		env.router = env.userBooksRouter()
		authorID := env.createAuthor(t)

		book, err := env.books.CreateBook(books.CreateBookParams{
			Title: "Blank", ISBN: "blank", TotalPages: 10, AuthorID: authorID,
		})
		require.NoError(t, err)

		w := env.request(t, "POST", "/api/user-books", gin.H{"bookId": book.ID})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "does not have any page")
	})

	t.Run("turn page without attaching", func(t *testing.T) {
		env, cleanup := setupHTTPTest(t)
		defer cleanup()
		env.router = env.userBooksRouter()
		authorID := env.createAuthor(t)

		book, err := env.books.CreateBook(books.CreateBookParams{
			Title: "Unattached", ISBN: "unattached", TotalPages: 10, AuthorID: authorID,
			Pages: []books.PageParams{{Page: 1, Content: "A"}},
		})
		require.NoError(t, err)

		w := env.request(t, "POST", "/api/user-books/"+book.ID+"/turn-page", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "attach the book first")
	})

	t.Run("turn page on unknown book", func(t *testing.T) {
		env, cleanup := setupHTTPTest(t)
		defer cleanup()
		env.router = env.userBooksRouter()

		w := env.request(t, "POST", "/api/user-books/missing/turn-page", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
