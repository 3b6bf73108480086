package service

import (
	"context"
	"os"
	"sync"
	"time"

	"tgbridge/internal/entity"
	"tgbridge/internal/telegram"
)

type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeSessionRepo struct {
	mu      sync.Mutex
	records map[string]*entity.AuthSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{records: make(map[string]*entity.AuthSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.AuthSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.records[s.SessionID] = &copied
	return nil
}

func (r *fakeSessionRepo) FindPending(_ context.Context, sessionID string, createdAfter time.Time) (*entity.AuthSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[sessionID]
	if !ok || !record.IsPending || !record.CreatedAt.After(createdAfter) {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (r *fakeSessionRepo) Complete(_ context.Context, sessionID string, sessionBlob string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.records[sessionID]; ok && record.IsPending {
		record.IsPending = false
		record.SessionBlob = sessionBlob
	}
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, sessionID)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context, createdBefore time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, record := range r.records {
		if record.CreatedAt.Before(createdBefore) {
			delete(r.records, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) get(sessionID string) *entity.AuthSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[sessionID]
	if !ok {
		return nil
	}
	copied := *record
	return &copied
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []entity.AuthEvent
}

func (r *fakeEventRepo) Log(_ context.Context, event *entity.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

// fakeConn satisfies PlatformConn. Stub behavior is configured per test.
type fakeConn struct {
	mu sync.Mutex

	codeHash    string
	sendCodeErr error
	signInUser  *telegram.User
	signInErr   error
	self        *telegram.User
	blob        string

	messages  []telegram.Message
	mediaData []byte
	mediaMime string

	sentCodePhone string
	signInPhone   string
	signInCode    string
	signInHash    string
	signInPass    string
	closed        bool
}

func (c *fakeConn) SendCode(_ context.Context, phoneNumber string) (string, error) {
	c.mu.Lock()
	c.sentCodePhone = phoneNumber
	c.mu.Unlock()
	if c.sendCodeErr != nil {
		return "", c.sendCodeErr
	}
	return c.codeHash, nil
}

func (c *fakeConn) SignIn(_ context.Context, phoneNumber, code, codeHash, password string) (*telegram.User, error) {
	c.mu.Lock()
	c.signInPhone = phoneNumber
	c.signInCode = code
	c.signInHash = codeHash
	c.signInPass = password
	c.mu.Unlock()
	if c.signInErr != nil {
		return nil, c.signInErr
	}
	return c.signInUser, nil
}

func (c *fakeConn) Self(_ context.Context) (*telegram.User, error) {
	return c.self, nil
}

func (c *fakeConn) SessionBlob(_ context.Context) (string, error) {
	return c.blob, nil
}

func (c *fakeConn) Messages(_ context.Context, limit, _ int) ([]telegram.Message, error) {
	if limit < len(c.messages) {
		return c.messages[:limit], nil
	}
	return c.messages, nil
}

func (c *fakeConn) MessageByID(_ context.Context, id int) (*telegram.Message, error) {
	for i := range c.messages {
		if c.messages[i].ID == id {
			return &c.messages[i], nil
		}
	}
	return nil, telegram.ErrMessageNotFound
}

func (c *fakeConn) SendText(_ context.Context, text string) (*telegram.Message, error) {
	return &telegram.Message{ID: 1, Date: time.Now().UTC(), Text: text}, nil
}

func (c *fakeConn) DeleteMessage(_ context.Context, _ int) error {
	return nil
}

func (c *fakeConn) SendFile(_ context.Context, _, caption string) (*telegram.Message, error) {
	return &telegram.Message{ID: 2, Date: time.Now().UTC(), Text: caption}, nil
}

func (c *fakeConn) DownloadMedia(_ context.Context, messageID int, path string) error {
	if _, err := c.MessageByID(context.Background(), messageID); err != nil {
		return err
	}
	return os.WriteFile(path, c.mediaData, 0o644)
}

func (c *fakeConn) DownloadMediaBytes(_ context.Context, messageID int) ([]byte, string, error) {
	if _, err := c.MessageByID(context.Background(), messageID); err != nil {
		return nil, "", err
	}
	return c.mediaData, c.mediaMime, nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeDialer hands out queued connections in order, recording each blob.
type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	err   error
	blobs []string
}

func (d *fakeDialer) Dial(_ context.Context, sessionBlob string) (PlatformConn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blobs = append(d.blobs, sessionBlob)
	if d.err != nil {
		return nil, d.err
	}
	if len(d.conns) == 0 {
		return nil, os.ErrClosed
	}
	conn := d.conns[0]
	d.conns = d.conns[1:]
	return conn, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.blobs)
}
