package admitcard

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gyanhq/campus/core"
)

var (
	ErrNotFound   = errors.New("admit card not found")
	ErrCardExists = errors.New("an admit card for this student and exam already exists")
)

type (
	Repository interface {
		CheckCardUniqueness(studentID int, examName string) error
		CreateCard(c Card) (Card, error)
		GetCardByID(id int) (Card, error)
		GetCardByNo(cardNo string) (Card, error)
		CardsByStudent(studentID int) ([]Card, error)
		// FilterCards returns cards ordered by exam date ascending.
		FilterCards(filter QueryFilter) ([]Card, error)
		DeleteCardByID(id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(studentID int, examName string) error {
	if err := svc.repo.CheckCardUniqueness(studentID, examName); err != nil {
		if err == ErrCardExists {
			return core.NewConflictError(err)
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nc NewCard) (Card, error) {
	now := time.Now().UTC()
	return svc.repo.CreateCard(Card{
		CardNo:         uuid.New().String(),
		StudentID:      nc.StudentID,
		ExamName:       nc.ExamName,
		ExamDate:       core.DateOnly(nc.ExamDate),
		ExamCenter:     nc.ExamCenter,
		UniversityCode: nc.UniversityCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (svc *Service) GetByID(id int) (Card, error) {
	return svc.repo.GetCardByID(id)
}

func (svc *Service) GetByNo(cardNo string) (Card, error) {
	return svc.repo.GetCardByNo(cardNo)
}

func (svc *Service) ByStudent(studentID int) ([]Card, error) {
	return svc.repo.CardsByStudent(studentID)
}

func (svc *Service) Query(filter QueryFilter) ([]Card, error) {
	return svc.repo.FilterCards(filter)
}

// UpcomingExams returns cards whose exam date is today or later.
func (svc *Service) UpcomingExams(universityCode string) ([]Card, error) {
	cards, err := svc.repo.FilterCards(QueryFilter{UniversityCode: universityCode})
	if err != nil {
		return nil, err
	}

	today := core.DateOnly(time.Now())
	upcoming := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !c.ExamDate.Before(today) {
			upcoming = append(upcoming, c)
		}
	}
	return upcoming, nil
}

func (svc *Service) Delete(id int) error {
	return svc.repo.DeleteCardByID(id)
}
