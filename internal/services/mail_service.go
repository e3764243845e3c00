package services

import (
	"log"
	"net/smtp"
)

// MailService delivers outbound mail through an in-process queue so a
// registering user is never blocked on SMTP.
type MailService struct {
	host  string
	port  string
	from  string
	queue chan mailJob
}

type mailJob struct {
	To      string
	Subject string
	Body    string
}

// NewMailService creates a MailService and starts its delivery worker.
func NewMailService(host, port, from string) *MailService {
	s := &MailService{
		host:  host,
		port:  port,
		from:  from,
		queue: make(chan mailJob, 64),
	}
	go s.worker()
	return s
}

// Enqueue schedules a message for delivery. Failures are logged, not
// surfaced to the caller.
func (s *MailService) Enqueue(to, subject, body string) {
	select {
	case s.queue <- mailJob{To: to, Subject: subject, Body: body}:
	default:
		log.Printf("[Mail] queue full, dropping message to %s", to)
	}
}

func (s *MailService) worker() {
	for job := range s.queue {
		if err := s.send(job); err != nil {
			log.Printf("[Mail] failed to send to %s: %v", job.To, err)
		}
	}
}

func (s *MailService) send(job mailJob) error {
	addr := s.host + ":" + s.port

	msg := "From: " + s.from + "\r\n" +
		"To: " + job.To + "\r\n" +
		"Subject: " + job.Subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		job.Body

	return smtp.SendMail(addr, nil, s.from, []string{job.To}, []byte(msg))
}
