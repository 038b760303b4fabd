package mongodb

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/galeria-app/users-api/internal/domain/repository"
)

func TestMapErr(t *testing.T) {
	t.Parallel()

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	opaque := errors.New("socket was unexpectedly closed")

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no documents", mongo.ErrNoDocuments, repository.ErrNotFound},
		{"duplicate key", dup, repository.ErrDuplicateKey},
		{"deadline", context.DeadlineExceeded, repository.ErrTimeout},
		{"opaque passthrough", opaque, opaque},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapErr(tc.in)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("mapErr(nil) = %v", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("mapErr(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
