package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

var collectionName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Push guarda data con una clave nueva. Las claves son UUIDv7: ordenadas por
// momento de creación, como los push ids de Firebase.
func (s *Service) Push(ctx context.Context, collection string, data json.RawMessage) (Document, error) {
	collection = strings.TrimSpace(collection)
	if !collectionName.MatchString(collection) {
		return Document{}, ErrInvalidInput
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || !json.Valid(trimmed) {
		return Document{}, ErrInvalidInput
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Document{}, err
	}

	d := Document{
		Collection: collection,
		Key:        id.String(),
		Data:       json.RawMessage(append([]byte(nil), trimmed...)),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return Document{}, err
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, collection, key string) (Document, error) {
	collection = strings.TrimSpace(collection)
	key = strings.TrimSpace(key)
	if !collectionName.MatchString(collection) || key == "" {
		return Document{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, collection, key)
}

func (s *Service) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	collection = strings.TrimSpace(collection)
	if !collectionName.MatchString(collection) {
		return nil, ErrInvalidInput
	}
	docs, err := s.repo.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	return Apply(docs, q), nil
}
