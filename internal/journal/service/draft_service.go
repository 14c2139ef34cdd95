package service

import (
	"context"
	"io"
	"net/url"
	"strings"
	"sync"

	"trading-journal/internal/journal/dto"
	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/common"
	"trading-journal/pkg/logger"

	"github.com/google/uuid"
)

// DraftService keeps the in-progress trade form state. The draft is the
// single source of truth for unsaved work; its canonical serialized form
// is a URL query string, which round-trips exactly through
// QueryString/Restore. The uploaded image URL is held alongside the
// draft but is not part of the query string.
type DraftService interface {
	CreateSession(ctx context.Context) (string, error)
	SetField(ctx context.Context, session, key, value string) error
	Field(ctx context.Context, session, key string) (string, bool, error)
	State(ctx context.Context, session string) (*dto.DraftStateResponse, error)
	QueryString(ctx context.Context, session string) (string, error)
	Restore(ctx context.Context, session, rawQuery string) error
	Clear(ctx context.Context, session string) error
	Snapshot(ctx context.Context, session string) (map[string]string, string, error)
	UploadImage(ctx context.Context, session, fileName string, file io.Reader) (string, error)
	Uploading(session string) bool
}

// NewDraftService creates a new draft service.
func NewDraftService(draftRepo repository.DraftRepository, mediaRepo repository.MediaRepository, log *logger.Logger) DraftService {
	return &draftService{
		draftRepo: draftRepo,
		mediaRepo: mediaRepo,
		logger:    log,
		uploading: make(map[string]struct{}),
	}
}

type draftService struct {
	draftRepo repository.DraftRepository
	mediaRepo repository.MediaRepository
	logger    *logger.Logger

	mu        sync.Mutex
	uploading map[string]struct{}
}

// CreateSession allocates a new draft session ID.
func (s *draftService) CreateSession(ctx context.Context) (string, error) {
	session := uuid.NewString()
	if err := s.draftRepo.Touch(ctx, session); err != nil {
		return "", err
	}
	s.logger.Info("Draft session created", logger.Field("session", session))
	return session, nil
}

// SetField overwrites a single draft field. Keys prefixed with "__"
// are reserved by the store and rejected.
func (s *draftService) SetField(ctx context.Context, session, key, value string) error {
	if isReservedFieldKey(key) {
		return ErrReservedFieldKey
	}
	return s.draftRepo.SetField(ctx, session, key, value)
}

// Field reads a single draft field. The second return value reports
// whether the field has ever been set; an empty string and an absent
// field are distinct.
func (s *draftService) Field(ctx context.Context, session, key string) (string, bool, error) {
	return s.draftRepo.GetField(ctx, session, key)
}

// State returns the full draft state, including the sma100/sma200
// visibility rule and the query string encoding.
func (s *draftService) State(ctx context.Context, session string) (*dto.DraftStateResponse, error) {
	fields, err := s.draftRepo.Fields(ctx, session)
	if err != nil {
		return nil, err
	}
	imageURL, err := s.draftRepo.ImageURL(ctx, session)
	if err != nil {
		return nil, err
	}

	return &dto.DraftStateResponse{
		SessionID:         session,
		Fields:            fields,
		ImageURL:          imageURL,
		Uploading:         s.Uploading(session),
		ShowAdditionalSMA: showAdditionalSMA(fields),
		Query:             encodeFields(fields),
	}, nil
}

// QueryString encodes the draft fields as a URL query string.
func (s *draftService) QueryString(ctx context.Context, session string) (string, error) {
	fields, err := s.draftRepo.Fields(ctx, session)
	if err != nil {
		return "", err
	}
	return encodeFields(fields), nil
}

// Restore replaces the draft's fields with the ones encoded in rawQuery.
// Fields not present in the encoding are dropped, so the restored draft
// equals the one the string was taken from. The image URL is untouched;
// it is not part of the encoding, and reserved keys smuggled into the
// string are ignored.
func (s *draftService) Restore(ctx context.Context, session, rawQuery string) error {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return err
	}
	if err := s.draftRepo.ClearFields(ctx, session); err != nil {
		return err
	}
	for key, vals := range values {
		if len(vals) == 0 || isReservedFieldKey(key) {
			continue
		}
		if err := s.draftRepo.SetField(ctx, session, key, vals[len(vals)-1]); err != nil {
			return err
		}
	}
	return nil
}

// Clear drops every draft field and the image URL.
func (s *draftService) Clear(ctx context.Context, session string) error {
	return s.draftRepo.Clear(ctx, session)
}

// Snapshot returns the draft fields and the image URL in one read, for
// promotion to a persisted trade.
func (s *draftService) Snapshot(ctx context.Context, session string) (map[string]string, string, error) {
	fields, err := s.draftRepo.Fields(ctx, session)
	if err != nil {
		return nil, "", err
	}
	imageURL, err := s.draftRepo.ImageURL(ctx, session)
	if err != nil {
		return nil, "", err
	}
	return fields, imageURL, nil
}

// UploadImage sends the file to the media store and records the returned
// URL on the draft. A second upload for the same session is rejected
// while one is in flight, so the stored URL is always the most recently
// initiated upload's. On failure any prior URL is left untouched.
func (s *draftService) UploadImage(ctx context.Context, session, fileName string, file io.Reader) (string, error) {
	if !s.beginUpload(session) {
		return "", ErrUploadInFlight
	}
	defer s.endUpload(session)

	imageURL, err := s.mediaRepo.Upload(ctx, fileName, file)
	if err != nil {
		s.logger.Error("Image upload failed", logger.ErrorField(err), logger.Field("session", session))
		return "", err
	}
	if err := s.draftRepo.SetImageURL(ctx, session, imageURL); err != nil {
		return "", err
	}

	s.logger.Info("Image uploaded", logger.Field("session", session), logger.Field("url", imageURL))
	return imageURL, nil
}

// Uploading reports whether the session has an upload in flight.
func (s *draftService) Uploading(session string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.uploading[session]
	return ok
}

func (s *draftService) beginUpload(session string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.uploading[session]; ok {
		return false
	}
	s.uploading[session] = struct{}{}
	return true
}

func (s *draftService) endUpload(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploading, session)
}

// isReservedFieldKey reports whether the key belongs to the store's
// reserved namespace rather than the form.
func isReservedFieldKey(key string) bool {
	return strings.HasPrefix(key, "__")
}

// showAdditionalSMA is the form's visibility rule: the sma100/sma200
// inputs are solicited only while sma20 and sma50 are both non-empty.
func showAdditionalSMA(fields map[string]string) bool {
	return fields[common.FieldSMA20] != "" && fields[common.FieldSMA50] != ""
}

func encodeFields(fields map[string]string) string {
	values := url.Values{}
	for key, val := range fields {
		values.Set(key, val)
	}
	return values.Encode()
}
