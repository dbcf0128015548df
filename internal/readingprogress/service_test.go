package readingprogress

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcharkviani/library/internal/authors"
	"github.com/mcharkviani/library/internal/books"
	"github.com/mcharkviani/library/internal/database"
	authorsrepo "github.com/mcharkviani/library/internal/database/authors"
	booksrepo "github.com/mcharkviani/library/internal/database/books"
	"github.com/mcharkviani/library/internal/database/userbooks"
	"github.com/mcharkviani/library/internal/entities"
)

type testEnv struct {
	db       *database.Database
	books    *books.Service
	progress *Service
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()
	dbPath := "./test_progress_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	authorService := authors.NewService(authorsrepo.NewRepository(db.DB))
	bookService := books.NewService(booksrepo.NewRepository(db.DB), authorService)
	progress := NewService(userbooks.NewRepository(db.DB), bookService)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return &testEnv{db: db, books: bookService, progress: progress}, cleanup
}

func (e *testEnv) createUser(t *testing.T, email string) *entities.User {
	t.Helper()
	user := &entities.User{FirstName: "Test", LastName: "Reader", Email: email, PasswordHash: "x"}
	require.NoError(t, e.db.DB.Create(user).Error)
	return user
}

func (e *testEnv) createBook(t *testing.T, isbn string, pages ...books.PageParams) *entities.Book {
	t.Helper()
	author, err := authors.NewService(authorsrepo.NewRepository(e.db.DB)).CreateAuthor(authors.CreateAuthorParams{
		FirstName: "Iris", LastName: "Murdoch",
	})
	require.NoError(t, err)

	book, err := e.books.CreateBook(books.CreateBookParams{
		Title:      "The Bell",
		ISBN:       isbn,
		TotalPages: 500,
		AuthorID:   author.ID,
		Pages:      pages,
	})
	require.NoError(t, err)
	return book
}

func TestService_Attach(t *testing.T) {
	t.Run("seeds the cursor at the first page", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		user := env.createUser(t, "a@example.com")
		book := env.createBook(t, "isbn-attach",
			books.PageParams{Page: 1, Content: "A"},
			books.PageParams{Page: 2, Content: "B"},
		)

		cursor, err := env.progress.Attach(user.ID, book.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, cursor.LastPageUserLookedAt)
	})

	t.Run("seeds at the smallest page even when it is not 1", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		user := env.createUser(t, "b@example.com")
		book := env.createBook(t, "isbn-attach-5",
			books.PageParams{Page: 5, Content: "E"},
			books.PageParams{Page: 9, Content: "I"},
		)

		cursor, err := env.progress.Attach(user.ID, book.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, cursor.LastPageUserLookedAt)
	})

	t.Run("fails for a book without pages", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		user := env.createUser(t, "c@example.com")
		book := env.createBook(t, "isbn-attach-empty")

		_, err := env.progress.Attach(user.ID, book.ID)
		assert.ErrorIs(t, err, books.ErrBookHasNoPages)
	})

	t.Run("re-attach re-seeds an existing cursor", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		user := env.createUser(t, "d@example.com")
		book := env.createBook(t, "isbn-reattach",
			books.PageParams{Page: 1, Content: "A"},
			books.PageParams{Page: 2, Content: "B"},
		)

		_, err := env.progress.Attach(user.ID, book.ID)
		require.NoError(t, err)
		_, err = env.progress.TurnPage(user.ID, book.ID, 2)
		require.NoError(t, err)

		cursor, err := env.progress.Attach(user.ID, book.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, cursor.LastPageUserLookedAt)
	})
}

func TestService_TurnPage(t *testing.T) {
	t.Run("reading session", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		user := env.createUser(t, "session@example.com")
		book := env.createBook(t, "isbn-session",
			books.PageParams{Page: 1, Content: "A"},
			books.PageParams{Page: 2, Content: "B"},
		)

		_, err := env.progress.Attach(user.ID, book.ID)
		require.NoError(t, err)

		// No explicit page: read at the cursor, don't move it
		window, err := env.progress.TurnPage(user.ID, book.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, window.CurrentPage.Page)
		assert.Equal(t, "A", window.CurrentPage.Content)
		require.NotNil(t, window.NextPage)
		assert.Equal(t, 2, *window.NextPage)

		// Explicit jump to the last page
		window, err = env.progress.TurnPage(user.ID, book.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, window.CurrentPage.Page)
		assert.Equal(t, "B", window.CurrentPage.Content)
		assert.Nil(t, window.NextPage)

		// Cursor stuck: re-read returns the same window
		window, err = env.progress.TurnPage(user.ID, book.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, window.CurrentPage.Page)
	})

	t.Run("read without explicit page leaves the cursor alone", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		user := env.createUser(t, "still@example.com")
		book := env.createBook(t, "isbn-still",
			books.PageParams{Page: 1, Content: "A"},
			books.PageParams{Page: 2, Content: "B"},
		)

		_, err := env.progress.Attach(user.ID, book.ID)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			window, err := env.progress.TurnPage(user.ID, book.ID, 0)
			require.NoError(t, err)
			assert.Equal(t, 1, window.CurrentPage.Page)
		}
	})

	t.Run("cursor lands on the page actually served after a deletion", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		user := env.createUser(t, "skip@example.com")
		book := env.createBook(t, "isbn-skip",
			books.PageParams{Page: 1, Content: "A"},
			books.PageParams{Page: 2, Content: "B"},
			books.PageParams{Page: 3, Content: "C"},
		)

		_, err := env.progress.Attach(user.ID, book.ID)
		require.NoError(t, err)

		page, err := env.books.GetBookPage(book.ID, 2)
		require.NoError(t, err)
		require.NoError(t, env.books.DeleteBookPage(page.ID))

		window, err := env.progress.TurnPage(user.ID, book.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, window.CurrentPage.Page)
		assert.Nil(t, window.NextPage)

		// The stored cursor mirrors the served page, not the requested one
		window, err = env.progress.TurnPage(user.ID, book.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, window.CurrentPage.Page)
	})

	t.Run("without attach first", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		user := env.createUser(t, "noattach@example.com")
		book := env.createBook(t, "isbn-noattach",
			books.PageParams{Page: 1, Content: "A"},
		)

		_, err := env.progress.TurnPage(user.ID, book.ID, 0)
		assert.ErrorIs(t, err, ErrCursorNotFound)
	})

	t.Run("unknown book", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		user := env.createUser(t, "nobook@example.com")

		_, err := env.progress.TurnPage(user.ID, "no-such-book", 0)
		assert.ErrorIs(t, err, books.ErrBookNotFound)
	})

	t.Run("jump past the last page", func(t *testing.T) {
		env, cleanup := setupTestEnv(t)
		defer cleanup()

		user := env.createUser(t, "past@example.com")
		book := env.createBook(t, "isbn-past",
			books.PageParams{Page: 1, Content: "A"},
		)

		_, err := env.progress.Attach(user.ID, book.ID)
		require.NoError(t, err)

		_, err = env.progress.TurnPage(user.ID, book.ID, 2)
		assert.ErrorIs(t, err, books.ErrBookPageNotFound)
	})
}
