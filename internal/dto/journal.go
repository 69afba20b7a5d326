package dto

import (
	"time"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is one entry line of a journal being posted.
type CreateTransactionRequest struct {
	AccountID       string                 `json:"accountID" binding:"required"`
	Amount          decimal.Decimal        `json:"amount" binding:"required,dgt0"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=DEBIT CREDIT"`
	Notes           string                 `json:"notes"`
}

// CreateJournalRequest defines a manual journal posting.
type CreateJournalRequest struct {
	Date         time.Time                  `json:"date" binding:"required"`
	Description  string                     `json:"description" binding:"required"`
	Transactions []CreateTransactionRequest `json:"transactions" binding:"required,min=2,dive"`
}

// TransactionResponse defines the data returned for a transaction line.
type TransactionResponse struct {
	TransactionID      string                 `json:"transactionID"`
	JournalID          string                 `json:"journalID"`
	AccountID          string                 `json:"accountID"`
	Amount             decimal.Decimal        `json:"amount"`
	TransactionType    domain.TransactionType `json:"transactionType"`
	Notes              string                 `json:"notes,omitempty"`
	RunningBalance     decimal.Decimal        `json:"runningBalance"`
	JournalDescription string                 `json:"journalDescription,omitempty"`
	CreatedAt          time.Time              `json:"createdAt"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID          string                `json:"journalID"`
	Reference          *string               `json:"reference,omitempty"`
	Date               time.Time             `json:"date"`
	Description        string                `json:"description"`
	Status             domain.JournalStatus  `json:"status"`
	Amount             decimal.Decimal       `json:"amount"`
	OriginalJournalID  *string               `json:"originalJournalID,omitempty"`
	ReversingJournalID *string               `json:"reversingJournalID,omitempty"`
	Transactions       []TransactionResponse `json:"transactions,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	CreatedBy          string                `json:"createdBy"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:      txn.TransactionID,
		JournalID:          txn.JournalID,
		AccountID:          txn.AccountID,
		Amount:             txn.Amount,
		TransactionType:    txn.TransactionType,
		Notes:              txn.Notes,
		RunningBalance:     txn.RunningBalance,
		JournalDescription: txn.JournalDescription,
		CreatedAt:          txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to its DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:          j.JournalID,
		Reference:          j.Reference,
		Date:               j.JournalDate,
		Description:        j.Description,
		Status:             j.Status,
		Amount:             j.Amount,
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		CreatedAt:          j.CreatedAt,
		CreatedBy:          j.CreatedBy,
	}
	if len(j.Transactions) > 0 {
		resp.Transactions = ToTransactionResponses(j.Transactions)
	}
	return resp
}

// ListJournalsParams defines query parameters for listing journals.
type ListJournalsParams struct {
	Limit               int     `form:"limit,default=20"`
	NextToken           *string `form:"nextToken"`
	IncludeReversals    bool    `form:"includeReversals,default=false"`
	IncludeTransactions bool    `form:"includeTransactions,default=false"`
}

// ListJournalsResponse wraps a page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListTransactionsParams defines query parameters for an account statement.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transaction lines.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
