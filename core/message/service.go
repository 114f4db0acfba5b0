package message

import (
	"errors"
	"net/mail"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core"
)

var ErrNotFound = errors.New("message not found")

type (
	Repository interface {
		CreateMessage(m Message) (Message, error)
		GetMessageByID(id int) (Message, error)
		// FilterMessages returns messages ordered by creation date descending.
		FilterMessages(filter QueryFilter) ([]Message, error)
		MessagesByStudent(studentID int) ([]Message, error)
		UpdateMessage(m Message) (Message, error)
		DeleteMessageByID(id int) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) Create(nm NewMessage) (Message, error) {
	now := time.Now().UTC()
	return svc.repo.CreateMessage(Message{
		StudentID:      nm.StudentID,
		SenderName:     nm.SenderName,
		SenderEmail:    nm.SenderEmail,
		Subject:        nm.Subject,
		Body:           nm.Body,
		UniversityCode: nm.UniversityCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (svc *Service) GetByID(id int) (Message, error) {
	return svc.repo.GetMessageByID(id)
}

func (svc *Service) Query(filter QueryFilter) ([]Message, error) {
	return svc.repo.FilterMessages(filter)
}

func (svc *Service) ByStudent(studentID int) ([]Message, error) {
	return svc.repo.MessagesByStudent(studentID)
}

// Reply stores the reply and emails it to the sender.
func (svc *Service) Reply(orig Message, r Reply) (Message, error) {
	m := orig
	m.Reply = null.StringFrom(r.Body)
	m.RepliedAt = null.TimeFrom(time.Now().UTC())
	m.IsRead = true
	m.UpdatedAt = m.RepliedAt.Time

	m, err := svc.repo.UpdateMessage(m)
	if err != nil {
		return Message{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: m.SenderName, Address: m.SenderEmail}},
		Subject: "Re: " + m.Subject,
		Body:    r.Body,
	})
	return m, nil
}

func (svc *Service) MarkRead(orig Message) (Message, error) {
	if orig.IsRead {
		return orig, nil
	}
	m := orig
	m.IsRead = true
	m.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMessage(m)
}

func (svc *Service) Stats(universityCode string) (Stats, error) {
	msgs, err := svc.repo.FilterMessages(QueryFilter{UniversityCode: universityCode})
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(msgs)}
	for _, m := range msgs {
		if !m.IsRead {
			stats.Unread++
		}
		if !m.IsReplied() {
			stats.Unreplied++
		}
	}
	return stats, nil
}

func (svc *Service) Delete(id int) error {
	return svc.repo.DeleteMessageByID(id)
}
