package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

// BookingNotifier delivers booking lifecycle notifications.
type BookingNotifier interface {
	BookingConfirmed(email string, booking *domain.Booking) error
}

// MailNotifier sends booking mails over SMTP behind a circuit breaker
// so a dead mail server cannot stall booking mutations for long.
type MailNotifier struct {
	host     string
	port     int
	from     string
	password string
	cb       *gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

func NewMailNotifier(host string, port int, from, password string, logger *logrus.Logger) *MailNotifier {
	return &MailNotifier{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		cb:       CircuitBreaker("mailNotifier", logger),
		logger:   logger,
	}
}

func (n *MailNotifier) BookingConfirmed(email string, booking *domain.Booking) error {
	_, err := n.cb.Execute(func() (interface{}, error) {
		message := gomail.NewMessage()
		message.SetHeader("From", n.from)
		message.SetHeader("To", email)
		message.SetHeader("Subject", "Your booking is confirmed")
		message.SetBody("text/html", fmt.Sprintf(
			"<p>Booking <b>%s</b> is confirmed.</p><p>Move-in: %s<br>Duration: %d months<br>Total: %.2f (deposit %.2f)</p>",
			booking.Reference,
			booking.StartDate.Format("02 Jan 2006"),
			booking.DurationMonths,
			booking.TotalAmount,
			booking.Deposit,
		))

		dialer := gomail.NewDialer(n.host, n.port, n.from, n.password)
		return nil, dialer.DialAndSend(message)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", apperrors.ErrUnavailable, apperrors.NotifierUnavailableError)
	}
	return err
}

func CircuitBreaker(name string, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warnf("Circuit Breaker '%s' changed from '%s' to '%s'", name, from, to)
			},
		},
	)
}
