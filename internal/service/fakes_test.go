package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Marga-Ghale/softdesk-backend/internal/config"
	"github.com/Marga-Ghale/softdesk-backend/internal/repository"
)

// memDB backs the in-memory repositories. Memberships are keyed by the
// (project, user) pair like the contributors primary key.
type memDB struct {
	mu       sync.Mutex
	users    map[string]*repository.User
	projects map[string]*repository.Project
	members  map[[2]string]*repository.Contributor
	issues   map[string]*repository.Issue
	comments map[string]*repository.Comment
	tokens   map[string]*repository.RefreshToken

	// failMembership makes the author insert inside CreateWithAuthor fail.
	failMembership bool
	seq            time.Duration
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[string]*repository.User{},
		projects: map[string]*repository.Project{},
		members:  map[[2]string]*repository.Contributor{},
		issues:   map[string]*repository.Issue{},
		comments: map[string]*repository.Comment{},
		tokens:   map[string]*repository.RefreshToken{},
	}
}

// tick returns strictly increasing timestamps so ordering is stable.
func (db *memDB) tick() time.Time {
	db.seq += time.Millisecond
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(db.seq)
}

func (db *memDB) repositories() *repository.Repositories {
	return &repository.Repositories{
		UserRepo:        &memUserRepo{db},
		ProjectRepo:     &memProjectRepo{db},
		ContributorRepo: &memContributorRepo{db},
		IssueRepo:       &memIssueRepo{db},
		CommentRepo:     &memCommentRepo{db},
		TokenRepo:       &memTokenRepo{db},
	}
}

// addUser inserts a user directly, skipping password hashing.
func (db *memDB) addUser(email string) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := uuid.NewString()
	db.users[id] = &repository.User{ID: id, Email: email, FirstName: strings.Split(email, "@")[0], CreatedAt: db.tick()}
	return id
}

func (db *memDB) membership(projectID, userID string) *repository.Contributor {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.members[[2]string{projectID, userID}]
}

func uniqueErr(constraint string) error {
	return &repository.ConstraintError{Code: repository.CodeUniqueViolation, Constraint: constraint}
}

// ---- users

type memUserRepo struct{ db *memDB }

func (r *memUserRepo) Create(_ context.Context, u *repository.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return uniqueErr(repository.ConstraintUserEmail)
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.db.tick()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.db.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*repository.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ---- projects

type memProjectRepo struct{ db *memDB }

func (r *memProjectRepo) CreateWithAuthor(_ context.Context, p *repository.Project, author *repository.Contributor) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.projects {
		if existing.Title == p.Title {
			return uniqueErr(repository.ConstraintProjectTitle)
		}
	}
	if r.db.failMembership {
		return errors.New("insert contributor: connection reset")
	}

	p.ID = uuid.NewString()
	p.CreatedAt = r.db.tick()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.db.projects[p.ID] = &cp

	author.ProjectID = p.ID
	author.JoinedAt = p.CreatedAt
	mc := *author
	r.db.members[[2]string{p.ID, author.UserID}] = &mc
	return nil
}

func (r *memProjectRepo) FindByID(_ context.Context, id string) (*repository.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *memProjectRepo) FindByMember(_ context.Context, userID string) ([]*repository.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*repository.Project
	for key := range r.db.members {
		if key[1] == userID {
			cp := *r.db.projects[key[0]]
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memProjectRepo) Update(_ context.Context, p *repository.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.projects {
		if existing.ID != p.ID && existing.Title == p.Title {
			return uniqueErr(repository.ConstraintProjectTitle)
		}
	}
	p.UpdatedAt = r.db.tick()
	cp := *p
	r.db.projects[p.ID] = &cp
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.projects[id]; !ok {
		return false, nil
	}
	delete(r.db.projects, id)
	for key := range r.db.members {
		if key[0] == id {
			delete(r.db.members, key)
		}
	}
	for issueID, issue := range r.db.issues {
		if issue.ProjectID == id {
			delete(r.db.issues, issueID)
			for commentID, c := range r.db.comments {
				if c.IssueID == issueID {
					delete(r.db.comments, commentID)
				}
			}
		}
	}
	return true, nil
}

// ---- contributors

type memContributorRepo struct{ db *memDB }

func (r *memContributorRepo) Add(_ context.Context, c *repository.Contributor) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := [2]string{c.ProjectID, c.UserID}
	if _, ok := r.db.members[key]; ok {
		return uniqueErr(repository.ConstraintContributorPair)
	}
	c.JoinedAt = r.db.tick()
	cp := *c
	cp.User = nil
	r.db.members[key] = &cp
	return nil
}

func (r *memContributorRepo) Find(_ context.Context, projectID, userID string) (*repository.Contributor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.members[[2]string{projectID, userID}]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memContributorRepo) FindByProject(_ context.Context, projectID string) ([]*repository.Contributor, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*repository.Contributor
	for key, c := range r.db.members {
		if key[0] != projectID {
			continue
		}
		cp := *c
		if u, ok := r.db.users[c.UserID]; ok {
			uc := *u
			cp.User = &uc
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (r *memContributorRepo) Remove(_ context.Context, projectID, userID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := [2]string{projectID, userID}
	if _, ok := r.db.members[key]; !ok {
		return false, nil
	}
	delete(r.db.members, key)
	return true, nil
}

// ---- issues

type memIssueRepo struct{ db *memDB }

func (r *memIssueRepo) Create(_ context.Context, i *repository.Issue) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	i.ID = uuid.NewString()
	i.CreatedAt = r.db.tick()
	i.UpdatedAt = i.CreatedAt
	cp := *i
	r.db.issues[i.ID] = &cp
	return nil
}

func (r *memIssueRepo) FindByID(_ context.Context, id string) (*repository.Issue, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if i, ok := r.db.issues[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, nil
}

func (r *memIssueRepo) FindByProject(_ context.Context, projectID string) ([]*repository.Issue, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*repository.Issue
	for _, i := range r.db.issues {
		if i.ProjectID == projectID {
			cp := *i
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (r *memIssueRepo) Update(_ context.Context, i *repository.Issue) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.issues[i.ID]
	if !ok {
		return errors.New("issue vanished")
	}
	stored.Title, stored.Description = i.Title, i.Description
	stored.Tag, stored.Priority, stored.Status = i.Tag, i.Priority, i.Status
	stored.AssigneeID = i.AssigneeID
	stored.UpdatedAt = r.db.tick()
	i.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *memIssueRepo) Delete(_ context.Context, id string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.issues[id]; !ok {
		return false, nil
	}
	delete(r.db.issues, id)
	for commentID, c := range r.db.comments {
		if c.IssueID == id {
			delete(r.db.comments, commentID)
		}
	}
	return true, nil
}

// ---- comments

type memCommentRepo struct{ db *memDB }

func (r *memCommentRepo) Create(_ context.Context, c *repository.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = r.db.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.db.comments[c.ID] = &cp
	return nil
}

func (r *memCommentRepo) FindByID(_ context.Context, id string) (*repository.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCommentRepo) FindByIssue(_ context.Context, issueID string) ([]*repository.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*repository.Comment
	for _, c := range r.db.comments {
		if c.IssueID == issueID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memCommentRepo) Update(_ context.Context, c *repository.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.comments[c.ID]
	if !ok {
		return errors.New("comment vanished")
	}
	stored.Description = c.Description
	stored.UpdatedAt = r.db.tick()
	c.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *memCommentRepo) Delete(_ context.Context, id string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.comments[id]; !ok {
		return false, nil
	}
	delete(r.db.comments, id)
	return true, nil
}

// ---- refresh tokens

type memTokenRepo struct{ db *memDB }

func (r *memTokenRepo) Save(_ context.Context, t *repository.RefreshToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t.CreatedAt = r.db.tick()
	cp := *t
	r.db.tokens[t.Token] = &cp
	return nil
}

func (r *memTokenRepo) Find(_ context.Context, token string) (*repository.RefreshToken, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if t, ok := r.db.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *memTokenRepo) Delete(_ context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.tokens, token)
	return nil
}

// ---- wiring

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     1,
		RefreshExpiry: 7,
	}
}

func newTestServices(t *testing.T) (*Services, *memDB) {
	t.Helper()
	db := newMemDB()

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewServices(&ServiceDeps{
		Config: testConfig(),
		Repos:  db.repositories(),
		Logger: log,
	}), db
}
