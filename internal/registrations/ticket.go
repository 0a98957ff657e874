package registrations

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	ticketCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	ticketCodeLength   = 10

	// maxCodeAttempts bounds the regenerate-on-conflict loop. A collision on
	// a 62^10 space is already vanishingly rare; hitting the bound means
	// something other than bad luck is wrong.
	maxCodeAttempts = 5
)

// GenerateTicketCode returns a random 10-character alphanumeric code drawn
// uniformly from the 62-symbol alphabet.
func GenerateTicketCode() (string, error) {
	buf := make([]byte, ticketCodeLength)
	max := big.NewInt(int64(len(ticketCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = ticketCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (the ticket_code collision case).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
