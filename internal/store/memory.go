package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/draftforge/draftforge/internal/database/models"
	"github.com/google/uuid"
)

// Memory is the no-database store. A single RWMutex guards all maps;
// that makes every operation atomic, which is what gives this
// implementation the same duplicate-email and double-consumption
// guarantees the SQL store gets from its unique indexes.
type Memory struct {
	mu sync.RWMutex

	users        map[uuid.UUID]models.User
	usersByEmail map[string]uuid.UUID

	verifTokens  map[uuid.UUID]models.VerificationToken
	verifByToken map[string]uuid.UUID

	resetTokens  map[uuid.UUID]models.PasswordResetToken
	resetByToken map[string]uuid.UUID

	proposals map[uuid.UUID]models.Proposal
	sows      map[uuid.UUID]models.SOW
}

func NewMemory() *Memory {
	return &Memory{
		users:        make(map[uuid.UUID]models.User),
		usersByEmail: make(map[string]uuid.UUID),
		verifTokens:  make(map[uuid.UUID]models.VerificationToken),
		verifByToken: make(map[string]uuid.UUID),
		resetTokens:  make(map[uuid.UUID]models.PasswordResetToken),
		resetByToken: make(map[string]uuid.UUID),
		proposals:    make(map[uuid.UUID]models.Proposal),
		sows:         make(map[uuid.UUID]models.SOW),
	}
}

var _ Store = (*Memory)(nil)

func stamp(b *models.Base) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

func (m *Memory) InsertUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.usersByEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}

	stamp(&user.Base)
	m.users[user.ID] = *user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usersByEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	user := m.users[id]
	return &user, nil
}

func (m *Memory) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *Memory) MarkUserVerified(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	user.IsEmailVerified = true
	user.UpdatedAt = time.Now()
	m.users[id] = user
	return nil
}

func (m *Memory) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	m.users[id] = user
	return nil
}

func (m *Memory) InsertVerificationToken(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) (*models.VerificationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := models.VerificationToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}
	stamp(&rec.Base)
	m.verifTokens[rec.ID] = rec
	m.verifByToken[token] = rec.ID
	return &rec, nil
}

func (m *Memory) FindVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.verifByToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	rec := m.verifTokens[id]
	if !rec.ExpiresAt.After(time.Now()) {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *Memory) DeleteVerificationToken(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.verifTokens[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.verifTokens, id)
	delete(m.verifByToken, rec.Token)
	return nil
}

func (m *Memory) InsertPasswordResetToken(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) (*models.PasswordResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := models.PasswordResetToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}
	stamp(&rec.Base)
	m.resetTokens[rec.ID] = rec
	m.resetByToken[token] = rec.ID
	return &rec, nil
}

func (m *Memory) FindPasswordResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.resetByToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	rec := m.resetTokens[id]
	if !rec.ExpiresAt.After(time.Now()) {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *Memory) DeletePasswordResetToken(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.resetTokens[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.resetTokens, id)
	delete(m.resetByToken, rec.Token)
	return nil
}

func (m *Memory) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for id, rec := range m.verifTokens {
		if !rec.ExpiresAt.After(now) {
			delete(m.verifTokens, id)
			delete(m.verifByToken, rec.Token)
			total++
		}
	}
	for id, rec := range m.resetTokens {
		if !rec.ExpiresAt.After(now) {
			delete(m.resetTokens, id)
			delete(m.resetByToken, rec.Token)
			total++
		}
	}
	return total, nil
}

func (m *Memory) CreateProposal(ctx context.Context, p *models.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp(&p.Base)
	m.proposals[p.ID] = *p
	return nil
}

func (m *Memory) ListProposals(ctx context.Context, userID uuid.UUID) ([]models.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var proposals []models.Proposal
	for _, p := range m.proposals {
		if p.UserID == userID {
			proposals = append(proposals, p)
		}
	}
	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
	})
	return proposals, nil
}

func (m *Memory) GetProposal(ctx context.Context, userID, id uuid.UUID) (*models.Proposal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.proposals[id]
	if !ok || p.UserID != userID {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) UpdateProposal(ctx context.Context, p *models.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.proposals[p.ID]
	if !ok || existing.UserID != p.UserID {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	m.proposals[p.ID] = *p
	return nil
}

func (m *Memory) DeleteProposal(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.proposals[id]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	delete(m.proposals, id)
	return nil
}

func (m *Memory) CreateSOW(ctx context.Context, s *models.SOW) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp(&s.Base)
	m.sows[s.ID] = *s
	return nil
}

func (m *Memory) ListSOWs(ctx context.Context, userID uuid.UUID) ([]models.SOW, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sows []models.SOW
	for _, s := range m.sows {
		if s.UserID == userID {
			sows = append(sows, s)
		}
	}
	sort.Slice(sows, func(i, j int) bool {
		return sows[i].CreatedAt.After(sows[j].CreatedAt)
	})
	return sows, nil
}

func (m *Memory) GetSOW(ctx context.Context, userID, id uuid.UUID) (*models.SOW, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sows[id]
	if !ok || s.UserID != userID {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *Memory) UpdateSOW(ctx context.Context, s *models.SOW) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sows[s.ID]
	if !ok || existing.UserID != s.UserID {
		return ErrNotFound
	}
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = time.Now()
	m.sows[s.ID] = *s
	return nil
}

func (m *Memory) DeleteSOW(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sows[id]
	if !ok || s.UserID != userID {
		return ErrNotFound
	}
	delete(m.sows, id)
	return nil
}
