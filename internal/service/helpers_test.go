package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"book-review/internal/auth"
	"book-review/internal/repository"
	"book-review/internal/repository/sqlite"
)

type testRepos struct {
	users    repository.UserRepository
	tasks    repository.TaskRepository
	books    repository.BookRepository
	reviews  repository.ReviewRepository
	comments repository.CommentRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := testRepos{
		users:    sqlite.NewUserRepository(db),
		tasks:    sqlite.NewTaskRepository(db),
		books:    sqlite.NewBookRepository(db),
		reviews:  sqlite.NewReviewRepository(db),
		comments: sqlite.NewCommentRepository(db),
	}

	ctx := context.Background()
	require.NoError(t, repos.users.Init(ctx))
	require.NoError(t, repos.tasks.Init(ctx))
	require.NoError(t, repos.books.Init(ctx))
	require.NoError(t, repos.reviews.Init(ctx))
	require.NoError(t, repos.comments.Init(ctx))

	return repos
}

func registerUser(t *testing.T, users UserService, username string) auth.Principal {
	t.Helper()

	user, err := users.Register(context.Background(), username, "password123")
	require.NoError(t, err)
	return auth.Principal{ID: user.ID, Role: user.Role}
}
