package inmemdb

import (
	"sort"

	"github.com/gyanhq/campus/core/message"
)

type messageRepository struct {
	db *messageTable
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *DB) *messageRepository {
	return &messageRepository{db: db.message}
}

func (repo *messageRepository) query() []message.Message {
	msgs := make([]message.Message, 0, len(repo.db.table))
	for _, m := range repo.db.table {
		msgs = append(msgs, *m)
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
	return msgs
}

func (repo *messageRepository) CreateMessage(m message.Message) (message.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	m.ID = repo.db.pkCount
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *messageRepository) GetMessageByID(id int) (message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if m, ok := repo.db.table[id]; ok {
		return *m, nil
	}
	return message.Message{}, message.ErrNotFound
}

func (repo *messageRepository) FilterMessages(filter message.QueryFilter) ([]message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]message.Message, 0)
	for _, m := range repo.query() {
		if filter.Unread != nil && m.IsRead == *filter.Unread {
			continue
		}
		if filter.Unreplied != nil && *filter.Unreplied && m.IsReplied() {
			continue
		}
		if filter.UniversityCode != "" && m.UniversityCode != filter.UniversityCode {
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (repo *messageRepository) MessagesByStudent(studentID int) ([]message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]message.Message, 0)
	for _, m := range repo.query() {
		if m.StudentID.Valid && int(m.StudentID.Int) == studentID {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

func (repo *messageRepository) UpdateMessage(m message.Message) (message.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[m.ID]; !ok {
		return message.Message{}, message.ErrNotFound
	}
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *messageRepository) DeleteMessageByID(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}
