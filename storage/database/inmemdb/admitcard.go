package inmemdb

import (
	"sort"

	"github.com/gyanhq/campus/core/admitcard"
)

type admitCardRepository struct {
	db *admitCardTable
}

var _ admitcard.Repository = (*admitCardRepository)(nil) // interface compliance check

func NewAdmitCardRepository(db *DB) *admitCardRepository {
	return &admitCardRepository{db: db.admitCard}
}

func (repo *admitCardRepository) query() []admitcard.Card {
	cards := make([]admitcard.Card, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		cards = append(cards, *c)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ExamDate.Before(cards[j].ExamDate) })
	return cards
}

func (repo *admitCardRepository) CheckCardUniqueness(studentID int, examName string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.table {
		if c.StudentID == studentID && c.ExamName == examName {
			return admitcard.ErrCardExists
		}
	}
	return nil
}

func (repo *admitCardRepository) CreateCard(c admitcard.Card) (admitcard.Card, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	c.ID = repo.db.pkCount
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *admitCardRepository) GetCardByID(id int) (admitcard.Card, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return admitcard.Card{}, admitcard.ErrNotFound
}

func (repo *admitCardRepository) GetCardByNo(cardNo string) (admitcard.Card, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.table {
		if c.CardNo == cardNo {
			return *c, nil
		}
	}
	return admitcard.Card{}, admitcard.ErrNotFound
}

func (repo *admitCardRepository) CardsByStudent(studentID int) ([]admitcard.Card, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]admitcard.Card, 0)
	for _, c := range repo.query() {
		if c.StudentID == studentID {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

func (repo *admitCardRepository) FilterCards(filter admitcard.QueryFilter) ([]admitcard.Card, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]admitcard.Card, 0)
	for _, c := range repo.query() {
		if filter.ExamName != "" && c.ExamName != filter.ExamName {
			continue
		}
		if filter.UniversityCode != "" && c.UniversityCode != filter.UniversityCode {
			continue
		}
		matches = append(matches, c)
	}
	return matches, nil
}

func (repo *admitCardRepository) DeleteCardByID(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.table, id)
	return nil
}
