// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/txn"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the global_settings collection.
// Each setting is one document keyed by its normalized key. The site group
// also backs the SiteSettings singleton, guarded by a version counter.
type Store struct {
	*crud.Store[models.GlobalSetting, *models.GlobalSetting]
	now func() time.Time
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{
		Store: crud.New[models.GlobalSetting](db.Collection("global_settings"),
			crud.WithUnique("uniq_global_settings_key", "key"),
			crud.WithDefaultSort(bson.D{{Key: "group", Value: 1}, {Key: "key", Value: 1}})),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// GetByKey loads one setting.
func (s *Store) GetByKey(ctx context.Context, key string) (*models.GlobalSetting, error) {
	return s.FindOne(ctx, bson.M{"key": models.NormalizeSettingKey(key)})
}

// ListGroup returns the settings of one group, all groups when empty.
func (s *Store) ListGroup(ctx context.Context, group string) ([]models.GlobalSetting, error) {
	filter := bson.M{}
	if group != "" {
		filter["group"] = group
	}
	return s.List(ctx, crud.ListOptions{Filter: filter})
}

// Upsert writes key unconditionally, creating it when missing. An empty
// group is stored as "general".
func (s *Store) Upsert(ctx context.Context, key string, value models.Value, description, group string) (*models.GlobalSetting, error) {
	key = models.NormalizeSettingKey(key)
	if key == "" {
		return nil, &crud.ConstraintError{Field: "key"}
	}
	if group == "" {
		group = models.SettingGroupGeneral
	}
	now := s.now()
	set := bson.M{
		"value":      value,
		"group":      group,
		"updated_at": now,
	}
	if description != "" {
		set["description"] = description
	}
	update := bson.M{
		"$set":         set,
		"$inc":         bson.M{"revision": 1},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.GlobalSetting
	if err := s.Collection().FindOneAndUpdate(ctx, bson.M{"key": key}, update, opts).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Insert creates key and fails with a *crud.ConstraintError on "key" when it
// already exists. The unique index decides, so two racing inserts cannot
// both succeed. An empty group is stored as "general".
func (s *Store) Insert(ctx context.Context, key string, value models.Value, description, group string) (*models.GlobalSetting, error) {
	key = models.NormalizeSettingKey(key)
	if key == "" {
		return nil, &crud.FieldError{Field: "key", Message: "Key is required."}
	}
	if group == "" {
		group = models.SettingGroupGeneral
	}
	g := &models.GlobalSetting{Key: key, Value: value, Description: description, Group: group}
	if err := s.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateByKey changes value and description when the stored revision matches.
func (s *Store) UpdateByKey(ctx context.Context, key string, revision int64, value models.Value, description string) (*models.GlobalSetting, error) {
	cur, err := s.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, cur.ID.Hex(), revision, bson.M{"value": value, "description": description})
}

// DeleteByKey removes one setting.
func (s *Store) DeleteByKey(ctx context.Context, key string) error {
	res, err := s.Collection().DeleteOne(ctx, bson.M{"key": models.NormalizeSettingKey(key)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return crud.ErrNotFound
	}
	return nil
}

// LoadSite assembles the SiteSettings singleton. Missing keys keep their
// defaults; a database with no site settings yields DefaultSiteSettings.
func (s *Store) LoadSite(ctx context.Context) (models.SiteSettings, error) {
	keys := append(models.SiteSettingKeys(), models.KeySettingsVersion)
	list, err := s.List(ctx, crud.ListOptions{Filter: bson.M{"key": bson.M{"$in": keys}}})
	if err != nil {
		return models.DefaultSiteSettings(), err
	}

	values := make(map[string]models.Value, len(list))
	var version int64
	var updated time.Time
	for _, g := range list {
		if g.Key == models.KeySettingsVersion {
			version = int64(g.Value.Number)
			continue
		}
		values[g.Key] = g.Value
		if g.UpdatedAt.After(updated) {
			updated = g.UpdatedAt
		}
	}

	out := models.SiteSettingsFromValues(values)
	out.Version = version
	if !updated.IsZero() {
		out.UpdatedAt = &updated
	}
	return out, nil
}

// SaveSite stores every field of in when the stored version equals
// in.Version, then bumps the version. On mismatch it returns a
// *crud.ConflictError whose Current is the stored SiteSettings.
func (s *Store) SaveSite(ctx context.Context, in models.SiteSettings) (models.SiteSettings, error) {
	coll := s.Collection()
	err := txn.Run(ctx, coll.Database(), nil, func(tx context.Context) error {
		if err := s.bumpVersion(tx, in.Version); err != nil {
			return err
		}
		for key, v := range in.ToValues() {
			if _, err := s.Upsert(tx, key, v, "", models.SettingGroupSite); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, crud.ErrConflict) {
			cur, lerr := s.LoadSite(ctx)
			if lerr != nil {
				return models.SiteSettings{}, lerr
			}
			return models.SiteSettings{}, &crud.ConflictError{Current: cur}
		}
		return models.SiteSettings{}, err
	}
	return s.LoadSite(ctx)
}

// bumpVersion compare-and-swaps the version counter from expected to
// expected+1. Version 0 means "never saved".
func (s *Store) bumpVersion(ctx context.Context, expected int64) error {
	now := s.now()
	filter := bson.M{"key": models.KeySettingsVersion, "value.number": float64(expected)}
	update := bson.M{
		"$set": bson.M{
			"value.kind":   models.KindNumber,
			"value.number": float64(expected + 1),
			"group":        models.SettingGroupSystem,
			"updated_at":   now,
		},
		"$inc":         bson.M{"revision": 1},
		"$setOnInsert": bson.M{"created_at": now},
	}

	if expected == 0 {
		// First save: the unique key index turns a lost race into a conflict.
		_, err := s.Collection().UpdateOne(ctx,
			bson.M{"key": models.KeySettingsVersion, "value.number": bson.M{"$exists": false}},
			update, options.Update().SetUpsert(true))
		if err != nil {
			if wafflemongo.IsDup(err) {
				return crud.ErrConflict
			}
			return err
		}
		return nil
	}

	res, err := s.Collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return crud.ErrConflict
	}
	return nil
}
