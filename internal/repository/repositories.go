package repository

import (
	"database/sql"

	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	UserRepo        UserRepository
	ProjectRepo     ProjectRepository
	ContributorRepo ContributorRepository
	IssueRepo       IssueRepository
	CommentRepo     CommentRepository
	TokenRepo       TokenRepository
}

// NewRepositories wires the Postgres repositories. Refresh tokens live in Redis
// when a client is given, otherwise in the refresh_tokens table.
func NewRepositories(db *sql.DB, redisClient *redis.Client) *Repositories {
	var tokenRepo TokenRepository
	if redisClient != nil {
		tokenRepo = NewRedisTokenRepository(redisClient)
	} else {
		tokenRepo = NewTokenRepository(db)
	}

	return &Repositories{
		UserRepo:        NewUserRepository(db),
		ProjectRepo:     NewProjectRepository(db),
		ContributorRepo: NewContributorRepository(db),
		IssueRepo:       NewIssueRepository(db),
		CommentRepo:     NewCommentRepository(db),
		TokenRepo:       tokenRepo,
	}
}
