package misc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"

	log "github.com/sirupsen/logrus"
)

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// QuotesManager serves the motivational quote pool shown to users between
// workouts. The pool is loaded once at startup from a CSV file.
type QuotesManager struct {
	Quotes []Quote
}

func NewQuoteManager(quotesCsvReader *csv.Reader) (*QuotesManager, error) {
	qm := &QuotesManager{}

	log.Println("reading quotes CSV ...")

	quotesCsvReader.Comma = ';'
	for {
		record, err := quotesCsvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) != 3 {
			return nil, fmt.Errorf("record [%s] does not have 3 elements", record)
		}

		// QUOTE;AUTHOR;GENRE
		qm.Quotes = append(qm.Quotes, Quote{
			Text:   record[0],
			Author: record[1],
			Genre:  record[2],
		})
	}

	if len(qm.Quotes) == 0 {
		return nil, errors.New("no quotes loaded")
	}

	log.Printf("quotes CSV read %d quotes", len(qm.Quotes))

	return qm, nil
}

func (qm *QuotesManager) RandomQuote() Quote {
	return qm.Quotes[rand.Intn(len(qm.Quotes))]
}
