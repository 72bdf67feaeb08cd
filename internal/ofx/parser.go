// Package ofx parses OFX/QFX bank statements into ledger transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/billfold/billfold/internal/model"
	"github.com/google/uuid"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX statement and returns ledger transactions for
// the given user and account. The statement's own account id is ignored; the
// caller decides which local account receives the rows.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader, userID, accountID string) ([]model.Transaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	processedContent := p.preprocessOFX(string(content))

	resp, err := ofxgo.ParseResponse(strings.NewReader(processedContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				transactions = append(transactions, p.convertTransaction(ofxTx, userID, accountID))
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				transactions = append(transactions, p.convertTransaction(ofxTx, userID, accountID))
			}
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// convertTransaction converts an OFX transaction to a ledger transaction.
// OFX signs amounts (negative for debits); the ledger stores unsigned amounts
// with an explicit income/expense type.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, userID, accountID string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()
	txnType := model.TypeIncome
	if amount < 0 {
		amount = -amount
		txnType = model.TypeExpense
	}

	txn := model.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		AccountID:   accountID,
		Date:        ofxTx.DtPosted.Time,
		Description: p.extractDescription(ofxTx),
		Type:        txnType,
		Amount:      amount,
	}

	if ofxTx.Memo != "" && string(ofxTx.Memo) != txn.Description {
		txn.Notes = string(ofxTx.Memo)
	}

	txn.Hash = txn.GenerateHash()
	return txn
}

// extractDescription tries to get a clean description from OFX data.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if name == "" {
		name = strings.TrimSpace(string(tx.Memo))
	}

	// Remove common point-of-sale prefixes
	for _, prefix := range []string{"POS ", "DEBIT CARD ", "CHECKCARD ", "ACH "} {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	if name == "" {
		name = "Imported transaction"
	}
	return name
}
