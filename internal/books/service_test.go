package books

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcharkviani/library/internal/authors"
	"github.com/mcharkviani/library/internal/database"
	authorsrepo "github.com/mcharkviani/library/internal/database/authors"
	booksrepo "github.com/mcharkviani/library/internal/database/books"
	"github.com/mcharkviani/library/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *authors.Service, func()) {
	t.Helper()
	dbPath := "./test_books_svc_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	authorService := authors.NewService(authorsrepo.NewRepository(db.DB))
	service := NewService(booksrepo.NewRepository(db.DB), authorService)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return service, authorService, cleanup
}

func createAuthor(t *testing.T, authorService *authors.Service) *entities.Author {
	t.Helper()
	author, err := authorService.CreateAuthor(authors.CreateAuthorParams{
		FirstName: "Ursula", LastName: "Le Guin",
	})
	require.NoError(t, err)
	return author
}

func TestService_CreateBook(t *testing.T) {
	t.Run("creates a book with initial pages", func(t *testing.T) {
		service, authorService, cleanup := setupTestService(t)
		defer cleanup()
		author := createAuthor(t, authorService)

		book, err := service.CreateBook(CreateBookParams{
			Title:      "The Dispossessed",
			ISBN:       "isbn-1",
			TotalPages: 400,
			AuthorID:   author.ID,
			Pages: []PageParams{
				{Page: 1, Content: "There was a wall."},
				{Page: 2, Content: "It did not look important."},
			},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, book.ID)

		page, err := service.GetBookPage(book.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, "There was a wall.", page.Content)
	})

	t.Run("unknown author", func(t *testing.T) {
		service, _, cleanup := setupTestService(t)
		defer cleanup()

		_, err := service.CreateBook(CreateBookParams{
			Title: "Orphan", ISBN: "isbn-2", TotalPages: 10, AuthorID: "missing",
		})
		assert.ErrorIs(t, err, authors.ErrAuthorNotFound)
	})

	t.Run("total pages must be positive", func(t *testing.T) {
		service, authorService, cleanup := setupTestService(t)
		defer cleanup()
		author := createAuthor(t, authorService)

		_, err := service.CreateBook(CreateBookParams{
			Title: "Zero", ISBN: "isbn-3", TotalPages: 0, AuthorID: author.ID,
		})
		assert.ErrorIs(t, err, ErrInvalidTotalPages)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		service, authorService, cleanup := setupTestService(t)
		defer cleanup()
		author := createAuthor(t, authorService)

		_, err := service.CreateBook(CreateBookParams{
			Title: "First", ISBN: "isbn-4", TotalPages: 10, AuthorID: author.ID,
		})
		require.NoError(t, err)

		_, err = service.CreateBook(CreateBookParams{
			Title: "Second", ISBN: "isbn-4", TotalPages: 10, AuthorID: author.ID,
		})
		assert.ErrorIs(t, err, ErrISBNAlreadyExists)
	})

	t.Run("duplicate page numbers in the payload", func(t *testing.T) {
		service, authorService, cleanup := setupTestService(t)
		defer cleanup()
		author := createAuthor(t, authorService)

		_, err := service.CreateBook(CreateBookParams{
			Title: "Dup", ISBN: "isbn-5", TotalPages: 10, AuthorID: author.ID,
			Pages: []PageParams{{Page: 1, Content: "a"}, {Page: 1, Content: "b"}},
		})
		assert.ErrorIs(t, err, ErrPagesMustBeUnique)
	})

	t.Run("page beyond total pages", func(t *testing.T) {
		service, authorService, cleanup := setupTestService(t)
		defer cleanup()
		author := createAuthor(t, authorService)

		_, err := service.CreateBook(CreateBookParams{
			Title: "Over", ISBN: "isbn-6", TotalPages: 10, AuthorID: author.ID,
			Pages: []PageParams{{Page: 11, Content: "too far"}},
		})
		assert.ErrorIs(t, err, ErrPageExceedsTotal)

		// Nothing was written
		_, total, err := service.ListBooks(1, 10, "isbn-6")
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestService_UpdateBook(t *testing.T) {
	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		service, authorService, cleanup := setupTestService(t)
		defer cleanup()
		author := createAuthor(t, authorService)

		book, err := service.CreateBook(CreateBookParams{
			Title: "Old Title", ISBN: "isbn-up", TotalPages: 100, AuthorID: author.ID,
		})
		require.NoError(t, err)

		newTitle := "New Title"
		updated, err := service.UpdateBook(book.ID, UpdateBookParams{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, "New Title", updated.Title)
		assert.Equal(t, "isbn-up", updated.ISBN)
		assert.Equal(t, 100, updated.TotalPages)
	})

	t.Run("changing isbn to a taken one", func(t *testing.T) {
		service, authorService, cleanup := setupTestService(t)
		defer cleanup()
		author := createAuthor(t, authorService)

		_, err := service.CreateBook(CreateBookParams{
			Title: "One", ISBN: "isbn-a", TotalPages: 10, AuthorID: author.ID,
		})
		require.NoError(t, err)
		book, err := service.CreateBook(CreateBookParams{
			Title: "Two", ISBN: "isbn-b", TotalPages: 10, AuthorID: author.ID,
		})
		require.NoError(t, err)

		taken := "isbn-a"
		_, err = service.UpdateBook(book.ID, UpdateBookParams{ISBN: &taken})
		assert.ErrorIs(t, err, ErrISBNAlreadyExists)
	})

	t.Run("keeping the same isbn is not a conflict", func(t *testing.T) {
		service, authorService, cleanup := setupTestService(t)
		defer cleanup()
		author := createAuthor(t, authorService)

		book, err := service.CreateBook(CreateBookParams{
			Title: "Same", ISBN: "isbn-same", TotalPages: 10, AuthorID: author.ID,
		})
		require.NoError(t, err)

		same := "isbn-same"
		title := "Renamed"
		_, err = service.UpdateBook(book.ID, UpdateBookParams{ISBN: &same, Title: &title})
		assert.NoError(t, err)
	})
}

func TestService_CreateBookPage(t *testing.T) {
	service, authorService, cleanup := setupTestService(t)
	defer cleanup()
	author := createAuthor(t, authorService)

	book, err := service.CreateBook(CreateBookParams{
		Title: "Pages", ISBN: "isbn-pages", TotalPages: 3, AuthorID: author.ID,
		Pages: []PageParams{{Page: 1, Content: "a"}},
	})
	require.NoError(t, err)

	_, err = service.CreateBookPage(book.ID, 2, "b")
	require.NoError(t, err)

	_, err = service.CreateBookPage(book.ID, 2, "again")
	assert.ErrorIs(t, err, ErrPagesMustBeUnique)

	_, err = service.CreateBookPage(book.ID, 4, "too far")
	assert.ErrorIs(t, err, ErrPageExceedsTotal)

	_, err = service.CreateBookPage("missing", 1, "x")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestService_GetMinBookPage(t *testing.T) {
	service, authorService, cleanup := setupTestService(t)
	defer cleanup()
	author := createAuthor(t, authorService)

	book, err := service.CreateBook(CreateBookParams{
		Title: "Min", ISBN: "isbn-min", TotalPages: 100, AuthorID: author.ID,
		Pages: []PageParams{{Page: 10, Content: "j"}, {Page: 3, Content: "c"}},
	})
	require.NoError(t, err)

	min, err := service.GetMinBookPage(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, min)

	empty, err := service.CreateBook(CreateBookParams{
		Title: "Empty", ISBN: "isbn-min-empty", TotalPages: 100, AuthorID: author.ID,
	})
	require.NoError(t, err)

	_, err = service.GetMinBookPage(empty.ID)
	assert.ErrorIs(t, err, ErrBookHasNoPages)

	_, err = service.GetMinBookPage("missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestService_DeleteBook(t *testing.T) {
	service, authorService, cleanup := setupTestService(t)
	defer cleanup()
	author := createAuthor(t, authorService)

	book, err := service.CreateBook(CreateBookParams{
		Title: "Doomed", ISBN: "isbn-del", TotalPages: 10, AuthorID: author.ID,
		Pages: []PageParams{{Page: 1, Content: "a"}},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteBook(book.ID))

	_, err = service.GetBook(book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = service.GetBookPage(book.ID, 1)
	assert.ErrorIs(t, err, ErrBookPageNotFound)

	assert.ErrorIs(t, service.DeleteBook(book.ID), ErrBookNotFound)
}
