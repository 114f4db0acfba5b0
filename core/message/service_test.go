package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyanhq/campus/core"
)

type fakeRepo struct {
	seq   int
	table map[int]Message
}

func newFakeRepo() *fakeRepo { return &fakeRepo{table: make(map[int]Message)} }

func (r *fakeRepo) CreateMessage(m Message) (Message, error) {
	r.seq++
	m.ID = r.seq
	r.table[m.ID] = m
	return m, nil
}

func (r *fakeRepo) GetMessageByID(id int) (Message, error) {
	if m, ok := r.table[id]; ok {
		return m, nil
	}
	return Message{}, ErrNotFound
}

func (r *fakeRepo) FilterMessages(filter QueryFilter) ([]Message, error) {
	matches := make([]Message, 0)
	for _, m := range r.table {
		if filter.UniversityCode != "" && m.UniversityCode != filter.UniversityCode {
			continue
		}
		if filter.Unread != nil && *filter.Unread != !m.IsRead {
			continue
		}
		if filter.Unreplied != nil && *filter.Unreplied == m.IsReplied() {
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (r *fakeRepo) MessagesByStudent(studentID int) ([]Message, error) {
	matches := make([]Message, 0)
	for _, m := range r.table {
		if m.StudentID.Valid && m.StudentID.Int == studentID {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

func (r *fakeRepo) UpdateMessage(m Message) (Message, error) {
	if _, ok := r.table[m.ID]; !ok {
		return Message{}, ErrNotFound
	}
	r.table[m.ID] = m
	return m, nil
}

func (r *fakeRepo) DeleteMessageByID(id int) error {
	delete(r.table, id)
	return nil
}

type fakeMailer struct {
	sent []*core.EmailMessage
}

func (m *fakeMailer) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

func TestReply(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := NewService(repo, mailer)

	m, err := svc.Create(NewMessage{
		SenderName:     "Asha Verma",
		SenderEmail:    "asha@example.com",
		Subject:        "Fee receipt request",
		Body:           "Please share my last receipt.",
		UniversityCode: "GYAN001",
	})
	require.NoError(t, err)
	assert.False(t, m.IsRead)
	assert.False(t, m.IsReplied())

	replied, err := svc.Reply(m, Reply{Body: "Attached herewith."})
	require.NoError(t, err)
	assert.True(t, replied.IsRead)
	assert.True(t, replied.IsReplied())
	assert.Equal(t, "Attached herewith.", replied.Reply.String)

	require.Len(t, mailer.sent, 1)
	sent := mailer.sent[0]
	assert.Equal(t, "Re: Fee receipt request", sent.Subject)
	require.Len(t, sent.To, 1)
	assert.Equal(t, "asha@example.com", sent.To[0].Address)
}

func TestMarkReadIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeMailer{})

	m, err := svc.Create(NewMessage{
		SenderName: "Ravi", SenderEmail: "ravi@example.com",
		Subject: "Hi", Body: "Hello", UniversityCode: "GYAN001",
	})
	require.NoError(t, err)

	read, err := svc.MarkRead(m)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	again, err := svc.MarkRead(read)
	require.NoError(t, err)
	assert.Equal(t, read.UpdatedAt, again.UpdatedAt)
}

func TestStats(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := NewService(repo, mailer)

	seed := []NewMessage{
		{SenderName: "A", SenderEmail: "a@example.com", Subject: "s1", Body: "b", UniversityCode: "GYAN001"},
		{SenderName: "B", SenderEmail: "b@example.com", Subject: "s2", Body: "b", UniversityCode: "GYAN001"},
		{SenderName: "C", SenderEmail: "c@example.com", Subject: "s3", Body: "b", UniversityCode: "GYAN002"},
	}
	msgs := make([]Message, 0, len(seed))
	for _, nm := range seed {
		m, err := svc.Create(nm)
		require.NoError(t, err)
		msgs = append(msgs, m)
	}

	_, err := svc.Reply(msgs[0], Reply{Body: "done"})
	require.NoError(t, err)

	stats, err := svc.Stats("GYAN001")
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 2, Unread: 1, Unreplied: 1}, stats)

	all, err := svc.Stats("")
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 3, Unread: 2, Unreplied: 2}, all)
}
