// Package service implements the use-case layer: registration, login, profile
// management, password change and journal CRUD. It owns every domain rule —
// input validation, email uniqueness, ownership scoping — and converts each
// fault into the shared error taxonomy before returning.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/thoas/go-funk"

	"github.com/jurnalku/jurnalku/internal/journal"
	"github.com/jurnalku/jurnalku/internal/models"
	"github.com/jurnalku/jurnalku/internal/user"
)

type userStore interface {
	All() []*user.User
	Find(id string) (*user.User, bool)
	InsertIf(record *user.User, check func(records []*user.User) error) error
	Update(id string, mutate func(record *user.User) error) (*user.User, error)
	Len() int
}

type journalStore interface {
	All() []*journal.Entry
	Find(id string) (*journal.Entry, bool)
	Insert(record *journal.Entry) error
	Update(id string, mutate func(record *journal.Entry) error) (*journal.Entry, error)
	Remove(id string) (*journal.Entry, error)
	Len() int
}

type sessionStore interface {
	Create(userID, email string) string
	Destroy(token string)
	Len() int
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type moodPredictor interface {
	Predict(ctx context.Context, text string) (json.RawMessage, error)
}

type idGenerator interface {
	Next() string
}

const (
	nameMinLength = 2
	nameMaxLength = 50

	passwordMinLength = 6
	passwordMaxLength = 100
)

// Service orchestrates the stores behind the HTTP handlers.
type Service struct {
	users     userStore
	journals  journalStore
	sessions  sessionStore
	ids       idGenerator
	hasher    passwordHasher
	predictor moodPredictor
	validate  *validator.Validate
}

// New wires the service with its collaborators.
func New(
	users userStore,
	journals journalStore,
	sessions sessionStore,
	ids idGenerator,
	hasher passwordHasher,
	predictor moodPredictor,
) *Service {
	return &Service{
		users:     users,
		journals:  journals,
		sessions:  sessions,
		ids:       ids,
		hasher:    hasher,
		predictor: predictor,
		validate:  validator.New(),
	}
}

// Register creates a new account. The email is the login key and must be
// unique among users; the password is stored only as a digest.
func (s *Service) Register(ctx context.Context, request models.RegisterRequest) (user.Public, error) {
	if err := s.validate.Struct(request); err != nil {
		return user.Public{}, fmt.Errorf("%w: %s", models.ErrValidation, err)
	}

	name, err := validateName(request.Name)
	if err != nil {
		return user.Public{}, err
	}

	email := normalizeEmail(request.Email)

	digest, err := s.hasher.Hash(request.Password)
	if err != nil {
		return user.Public{}, err
	}

	now := time.Now()
	usr := &user.User{
		ID:        s.ids.Next(),
		Name:      name,
		Email:     email,
		Password:  digest,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The duplicate scan runs under the collection mutex together with the
	// insert, so two concurrent registrations of the same email cannot both
	// pass the check.
	err = s.users.InsertIf(usr, func(records []*user.User) error {
		for _, existing := range records {
			if existing.Email == email {
				return models.ErrEmailTaken
			}
		}

		return nil
	})
	if err != nil {
		return user.Public{}, err
	}

	return usr.Public(), nil
}

// Login checks credentials and mints a session. An unknown email and a wrong
// password produce the same ErrUnauthorized so accounts cannot be enumerated.
func (s *Service) Login(ctx context.Context, request models.LoginRequest) (string, user.Public, error) {
	if err := s.validate.Struct(request); err != nil {
		return "", user.Public{}, fmt.Errorf("%w: %s", models.ErrValidation, err)
	}

	usr := s.findByEmail(normalizeEmail(request.Email))
	if usr == nil || !s.hasher.Verify(request.Password, usr.Password) {
		return "", user.Public{}, models.ErrUnauthorized
	}

	token := s.sessions.Create(usr.ID, usr.Email)

	return token, usr.Public(), nil
}

// Logout destroys a session token. Unknown tokens are destroyed just as
// successfully as live ones.
func (s *Service) Logout(ctx context.Context, token string) {
	s.sessions.Destroy(token)
}

// Profile returns the acting user's public view.
func (s *Service) Profile(ctx context.Context, userID string) (user.Public, error) {
	usr, found := s.users.Find(userID)
	if !found {
		return user.Public{}, fmt.Errorf("%w: user", models.ErrNotFound)
	}

	return usr.Public(), nil
}

// UpdateProfile changes the user's name after trimming and length validation.
func (s *Service) UpdateProfile(ctx context.Context, userID, name string) (user.Public, error) {
	trimmed, err := validateName(name)
	if err != nil {
		return user.Public{}, err
	}

	usr, err := s.users.Update(userID, func(record *user.User) error {
		record.Name = trimmed
		return nil
	})
	if err != nil {
		return user.Public{}, err
	}

	return usr.Public(), nil
}

// ChangePassword verifies the current password, rejects reuse of it, checks
// the new password's length and stores a fresh digest. A wrong current
// password is a validation failure here, not an authorization one: the caller
// already holds a valid session. The whole verify-and-rehash sequence runs
// inside one collection update so a concurrent change cannot slip between the
// digest check and the write.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if length := len([]rune(newPassword)); length < passwordMinLength || length > passwordMaxLength {
		return fmt.Errorf(
			"%w: new password must be between %d and %d characters",
			models.ErrValidation,
			passwordMinLength,
			passwordMaxLength,
		)
	}

	_, err := s.users.Update(userID, func(record *user.User) error {
		if !s.hasher.Verify(currentPassword, record.Password) {
			return fmt.Errorf("%w: current password is incorrect", models.ErrValidation)
		}

		if s.hasher.Verify(newPassword, record.Password) {
			return fmt.Errorf("%w: new password must differ from the current one", models.ErrValidation)
		}

		digest, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}
		record.Password = digest

		return nil
	})

	return err
}

// CreateJournal stores a new entry for the acting user. Catatan and mood are
// required after trimming; the activity containers default to empty.
func (s *Service) CreateJournal(
	ctx context.Context,
	userID string,
	request models.CreateJournalRequest,
) (*journal.Entry, error) {
	catatan := strings.TrimSpace(request.Catatan)
	if catatan == "" {
		return nil, fmt.Errorf("%w: catatan is required", models.ErrValidation)
	}
	mood := strings.TrimSpace(request.Mood)
	if mood == "" {
		return nil, fmt.Errorf("%w: mood is required", models.ErrValidation)
	}

	aktivitas := request.Aktivitas
	if aktivitas == nil {
		aktivitas = []string{}
	}
	detailAktivitas := request.DetailAktivitas
	if detailAktivitas == nil {
		detailAktivitas = map[string]string{}
	}

	now := time.Now()
	entry := &journal.Entry{
		ID:              s.ids.Next(),
		UserID:          userID,
		Catatan:         catatan,
		Mood:            mood,
		Aktivitas:       aktivitas,
		DetailAktivitas: detailAktivitas,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.journals.Insert(entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// ListJournals returns the acting user's entries, newest first. The sort is
// stable so entries sharing a creation time keep their insertion order.
func (s *Service) ListJournals(ctx context.Context, userID string) ([]*journal.Entry, error) {
	entries := funk.Filter(s.journals.All(), func(entry *journal.Entry) bool {
		return entry.UserID == userID
	}).([]*journal.Entry)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return entries, nil
}

// GetJournal returns one entry scoped to its owner. A foreign entry is
// reported exactly like a missing one.
func (s *Service) GetJournal(ctx context.Context, userID, entryID string) (*journal.Entry, error) {
	entry, found := s.journals.Find(entryID)
	if !found || entry.UserID != userID {
		return nil, fmt.Errorf("%w: journal entry", models.ErrNotFound)
	}

	return entry, nil
}

// UpdateJournal applies a patch to an owned entry: only fields present in the
// request change, and present text fields must stay non-empty after trimming.
func (s *Service) UpdateJournal(
	ctx context.Context,
	userID, entryID string,
	request models.UpdateJournalRequest,
) (*journal.Entry, error) {
	if _, err := s.GetJournal(ctx, userID, entryID); err != nil {
		return nil, err
	}

	var catatan, mood string
	if request.Catatan != nil {
		catatan = strings.TrimSpace(*request.Catatan)
		if catatan == "" {
			return nil, fmt.Errorf("%w: catatan must not be empty", models.ErrValidation)
		}
	}
	if request.Mood != nil {
		mood = strings.TrimSpace(*request.Mood)
		if mood == "" {
			return nil, fmt.Errorf("%w: mood must not be empty", models.ErrValidation)
		}
	}

	return s.journals.Update(entryID, func(record *journal.Entry) error {
		if request.Catatan != nil {
			record.Catatan = catatan
		}
		if request.Mood != nil {
			record.Mood = mood
		}
		if request.Aktivitas != nil {
			record.Aktivitas = *request.Aktivitas
		}
		if request.DetailAktivitas != nil {
			record.DetailAktivitas = *request.DetailAktivitas
		}

		return nil
	})
}

// DeleteJournal removes an owned entry; the ownership check runs before the
// removal so a foreign id never reveals the entry's existence.
func (s *Service) DeleteJournal(ctx context.Context, userID, entryID string) error {
	if _, err := s.GetJournal(ctx, userID, entryID); err != nil {
		return err
	}

	_, err := s.journals.Remove(entryID)

	return err
}

// PredictMood proxies text to the external prediction service.
func (s *Service) PredictMood(ctx context.Context, request models.PredictMoodRequest) (json.RawMessage, error) {
	if err := s.validate.Struct(request); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrValidation, err)
	}

	return s.predictor.Predict(ctx, request.Text)
}

// Stats reports collection sizes for the health endpoint.
func (s *Service) Stats(ctx context.Context) models.HealthStats {
	return models.HealthStats{
		Users:    s.users.Len(),
		Journals: s.journals.Len(),
		Sessions: s.sessions.Len(),
	}
}

func (s *Service) findByEmail(email string) *user.User {
	for _, usr := range s.users.All() {
		if usr.Email == email {
			return usr
		}
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return "", fmt.Errorf("%w: name is required", models.ErrValidation)
	case len([]rune(trimmed)) < nameMinLength:
		return "", fmt.Errorf("%w: name must be at least %d characters", models.ErrValidation, nameMinLength)
	case len([]rune(trimmed)) > nameMaxLength:
		return "", fmt.Errorf("%w: name must be at most %d characters", models.ErrValidation, nameMaxLength)
	}

	return trimmed, nil
}
