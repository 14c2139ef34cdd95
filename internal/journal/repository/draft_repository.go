package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"trading-journal/pkg/common"

	"github.com/redis/go-redis/v9"
)

// Reserved hash keys stored alongside the draft fields. They are never
// part of the query string encoding.
const (
	draftImageKey   = "__image_url"
	draftTouchedKey = "__touched_at"
)

// DraftRepository defines the storage interface for in-progress trade
// drafts. A draft is a flat bag of string fields plus one image URL.
type DraftRepository interface {
	Touch(ctx context.Context, session string) error
	SetField(ctx context.Context, session, key, value string) error
	GetField(ctx context.Context, session, key string) (string, bool, error)
	Fields(ctx context.Context, session string) (map[string]string, error)
	ClearFields(ctx context.Context, session string) error
	SetImageURL(ctx context.Context, session, url string) error
	ImageURL(ctx context.Context, session string) (string, error)
	Clear(ctx context.Context, session string) error
	Sessions(ctx context.Context) ([]string, error)
	LastTouched(ctx context.Context, session string) (time.Time, error)
}

// NewDraftRepository creates a Redis-backed draft repository. Each
// session lives in one hash under common.DraftKeyPrefix.
func NewDraftRepository(client *redis.Client) DraftRepository {
	return &draftRepository{client: client}
}

type draftRepository struct {
	client *redis.Client
}

func draftKey(session string) string {
	return common.DraftKeyPrefix + session
}

func (r *draftRepository) Touch(ctx context.Context, session string) error {
	return r.client.HSet(ctx, draftKey(session), draftTouchedKey, time.Now().UnixNano()).Err()
}

func (r *draftRepository) SetField(ctx context.Context, session, key, value string) error {
	return r.client.HSet(ctx, draftKey(session),
		key, value,
		draftTouchedKey, time.Now().UnixNano(),
	).Err()
}

func (r *draftRepository) GetField(ctx context.Context, session, key string) (string, bool, error) {
	val, err := r.client.HGet(ctx, draftKey(session), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *draftRepository) Fields(ctx context.Context, session string) (map[string]string, error) {
	all, err := r.client.HGetAll(ctx, draftKey(session)).Result()
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(all))
	for k, v := range all {
		if strings.HasPrefix(k, "__") {
			continue
		}
		fields[k] = v
	}
	return fields, nil
}

// ClearFields drops every form field but keeps the image URL and the
// touch timestamp.
func (r *draftRepository) ClearFields(ctx context.Context, session string) error {
	all, err := r.client.HGetAll(ctx, draftKey(session)).Result()
	if err != nil {
		return err
	}
	var keys []string
	for k := range all {
		if strings.HasPrefix(k, "__") {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.HDel(ctx, draftKey(session), keys...).Err()
}

func (r *draftRepository) SetImageURL(ctx context.Context, session, url string) error {
	return r.client.HSet(ctx, draftKey(session),
		draftImageKey, url,
		draftTouchedKey, time.Now().UnixNano(),
	).Err()
}

func (r *draftRepository) ImageURL(ctx context.Context, session string) (string, error) {
	url, err := r.client.HGet(ctx, draftKey(session), draftImageKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

func (r *draftRepository) Clear(ctx context.Context, session string) error {
	return r.client.Del(ctx, draftKey(session)).Err()
}

func (r *draftRepository) Sessions(ctx context.Context) ([]string, error) {
	var sessions []string
	iter := r.client.Scan(ctx, 0, common.DraftKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		sessions = append(sessions, strings.TrimPrefix(iter.Val(), common.DraftKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *draftRepository) LastTouched(ctx context.Context, session string) (time.Time, error) {
	raw, err := r.client.HGet(ctx, draftKey(session), draftTouchedKey).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, nanos), nil
}
