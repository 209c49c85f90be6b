package application

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"
)

// Mailer sends the transactional mails over SMTP. The circuit breaker
// keeps a dead SMTP relay from slowing down registration, which never
// fails on mail errors anyway.
type Mailer struct {
	host     string
	port     int
	email    string
	password string
	cb       *gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

func NewMailer(host string, port int, email, password string, logger *logrus.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		email:    email,
		password: password,
		cb:       mailCircuitBreaker(logger),
		logger:   logger,
	}
}

func (mailer *Mailer) SendWelcomeEmail(to string, username string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", mailer.email)
	message.SetHeader("To", to)
	message.SetHeader("Subject", "Welcome to COABI!")

	body := fmt.Sprintf("Hello %s,\n\n"+
		"Welcome to COABI! Your registration went through.\n\n"+
		"You can now join a household with its invitation code. If you do not have one, "+
		"ask a member of your household to send it to you.\n\n"+
		"The COABI team", username)
	message.SetBody("text/plain", body)

	_, err := mailer.cb.Execute(func() (interface{}, error) {
		client := gomail.NewDialer(mailer.host, mailer.port, mailer.email, mailer.password)
		return nil, client.DialAndSend(message)
	})
	if err != nil {
		mailer.logger.Errorf("failed to send welcome mail to %s: %s", to, err)
		return err
	}
	return nil
}

func mailCircuitBreaker(logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        "smtp",
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Infof("Circuit Breaker '%s' changed from '%s' to '%s'", name, from, to)
			},
		},
	)
}
