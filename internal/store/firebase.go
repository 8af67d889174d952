package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/history"
)

// MealsPath is the Realtime Database node holding one child per meal id.
const MealsPath = "meals"

var errExists = errors.New("node exists")

// RTDB is the subset of the Realtime Database used by Firebase. It exists so
// tests can substitute an in-memory tree.
type RTDB interface {
	Get(ctx context.Context, path string, v any) error
	// Create writes v at path only when the node is empty and returns
	// errExists otherwise.
	Create(ctx context.Context, path string, v any) error
	Delete(ctx context.Context, path string) error
}

// Firebase stores entries at meals/<id> in a Firebase Realtime Database.
type Firebase struct {
	rt RTDB
}

// NewFirebase wraps an RTDB.
func NewFirebase(rt RTDB) *Firebase { return &Firebase{rt: rt} }

// DialFirebase connects to the database at url. credentialsFile may be empty
// to use Application Default Credentials.
func DialFirebase(ctx context.Context, url, credentialsFile string) (*Firebase, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: url}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase database: %w", err)
	}
	return NewFirebase(rtdbClient{c: client}), nil
}

func (s *Firebase) List(ctx context.Context) (history.History, error) {
	var tree map[string]domain.MealEntry
	if err := s.rt.Get(ctx, MealsPath, &tree); err != nil {
		return nil, err
	}
	h := make(history.History, 0, len(tree))
	for key, e := range tree {
		if e.ID == "" {
			e.ID = key
		}
		e.Normalize()
		h = append(h, e)
	}
	return h, nil
}

func (s *Firebase) Append(ctx context.Context, e domain.MealEntry) error {
	if err := validKey(e.ID); err != nil {
		return err
	}
	e.Normalize()
	err := s.rt.Create(ctx, MealsPath+"/"+e.ID, e)
	if errors.Is(err, errExists) {
		return ErrDuplicate
	}
	return err
}

func (s *Firebase) Remove(ctx context.Context, id string) error {
	if err := validKey(id); err != nil {
		return err
	}
	return s.rt.Delete(ctx, MealsPath+"/"+id)
}

// Realtime Database keys cannot contain these characters.
func validKey(id string) error {
	if id == "" || strings.ContainsAny(id, ".#$[]/") {
		return fmt.Errorf("invalid meal id %q", id)
	}
	return nil
}

type rtdbClient struct {
	c *db.Client
}

func (r rtdbClient) Get(ctx context.Context, path string, v any) error {
	return r.c.NewRef(path).Get(ctx, v)
}

func (r rtdbClient) Create(ctx context.Context, path string, v any) error {
	return r.c.NewRef(path).Transaction(ctx, func(tn db.TransactionNode) (interface{}, error) {
		var cur map[string]any
		if err := tn.Unmarshal(&cur); err != nil {
			return nil, err
		}
		if cur != nil {
			return nil, errExists
		}
		return v, nil
	})
}

func (r rtdbClient) Delete(ctx context.Context, path string) error {
	return r.c.NewRef(path).Delete(ctx)
}
