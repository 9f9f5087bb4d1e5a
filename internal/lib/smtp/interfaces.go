// Package smtp предоставляет транспорт для отправки писем офису.
package smtp

import "io"

// Client покрывает используемую часть *smtp.Client, чтобы сервис
// рассылки можно было тестировать без живого SMTP-сервера.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface интерфейс для SMTP транспорта.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
