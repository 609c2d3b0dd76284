// internal/app/store/contacts/contactstore.go
package contacts

import (
	"context"
	"errors"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInvalidStatus is returned for a status outside models.AllContactStatuses.
var ErrInvalidStatus = errors.New("invalid contact status")

// Store persists contact submissions.
type Store struct {
	*crud.Store[models.ContactSubmission, *models.ContactSubmission]
}

// New creates a contact submission Store. Submissions list newest first.
func New(db *mongo.Database) *Store {
	return &Store{crud.New[models.ContactSubmission](db.Collection("contact_submissions"))}
}

// Submit stores a new submission with status "new".
func (s *Store) Submit(ctx context.Context, sub *models.ContactSubmission) error {
	sub.Status = models.ContactStatusNew
	return s.Create(ctx, sub)
}

// ListByStatus returns submissions, all of them when status is empty.
func (s *Store) ListByStatus(ctx context.Context, status string, limit, page int64) ([]models.ContactSubmission, error) {
	filter := bson.M{}
	if status != "" {
		if !models.IsValidContactStatus(status) {
			return nil, ErrInvalidStatus
		}
		filter["status"] = status
	}
	return s.List(ctx, crud.ListOptions{Filter: filter, Limit: limit, Page: page})
}

// CountNew returns the number of unread submissions.
func (s *Store) CountNew(ctx context.Context) (int64, error) {
	return s.Count(ctx, bson.M{"status": models.ContactStatusNew})
}

// MarkRead loads a submission and moves it from "new" to "read". Other
// statuses are left alone. The returned document reflects the stored state.
func (s *Store) MarkRead(ctx context.Context, id string) (*models.ContactSubmission, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != models.ContactStatusNew {
		return sub, nil
	}
	updated, err := s.Update(ctx, id, sub.Revision, bson.M{"status": models.ContactStatusRead})
	if err != nil {
		// Someone else moved it on; their state wins.
		var ce *crud.ConflictError
		if errors.As(err, &ce) {
			if cur, ok := ce.Current.(*models.ContactSubmission); ok {
				return cur, nil
			}
		}
		return nil, err
	}
	return updated, nil
}

// SetStatus changes status and notes, checking revision.
func (s *Store) SetStatus(ctx context.Context, id string, revision int64, status, notes string) (*models.ContactSubmission, error) {
	if !models.IsValidContactStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.Update(ctx, id, revision, bson.M{"status": status, "notes": notes})
}
