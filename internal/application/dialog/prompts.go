package dialog

import (
	"fmt"

	"github.com/sikacredit/ussd-api/internal/domain"
)

// All user-facing dialog text lives here; validators and repositories never
// produce prompt strings.

const (
	msgExpired     = "Your session has expired. Please dial again to restart."
	msgUnavailable = "Service temporarily unavailable. Please try again later."

	msgRegistered = "Registration successful. We will notify you once your account is approved."

	msgSuspended       = "Your account is suspended. Call support for assistance."
	msgAwaitingApproval = "Your account is awaiting approval. You will be notified by SMS."

	msgLoanCancelled = "Your loan request was cancelled."
	msgNoLoans       = "You have no loan applications on record."

	msgInvalidSelection = "Invalid selection. Please dial again."

	msgHelp = "SikaCredit support: call 0800-123-456 or email help@sikacredit.example."
)

func welcomePrompt(firstFieldPrompt string) string {
	return "Welcome to SikaCredit. Let's get you registered.\n" + firstFieldPrompt
}

func homeMenu(name string) string {
	return fmt.Sprintf("Welcome back, %s.\n1. Apply for a loan\n2. Loan status\n3. My account\n4. ID lookup\n5. Help", name)
}

func amountPrompt(min, max int) string {
	return fmt.Sprintf("Enter loan amount (GHS %d-%d):", min, max)
}

func amountRangeError(min, max int) string {
	return fmt.Sprintf("Amount must be between %d and %d.\n%s", min, max, amountPrompt(min, max))
}

const termPrompt = "Choose repayment term:\n1. 1 month\n2. 3 months\n3. 6 months"

func confirmPrompt(amount, termMonths int) string {
	return fmt.Sprintf("Request GHS %d for %d month(s)?\n1. Confirm\n2. Cancel", amount, termMonths)
}

func loanSubmitted(amount int) string {
	return fmt.Sprintf("Your loan request of GHS %d was submitted successfully. You will be notified once it is processed.", amount)
}

func loanStatus(l *domain.Loan) string {
	return fmt.Sprintf("Your last loan of GHS %d is %s.", l.Amount, l.Status)
}

const lookupPrompt = "Enter the national ID number to look up:"

func lookupSummary(ident *domain.Identity) string {
	return fmt.Sprintf("Name: %s\nPhone: %s\nID: %s\nStatus: %s", ident.Name, ident.Phone, ident.CardNumber, ident.Status)
}

func lookupMiss(card string) string {
	return fmt.Sprintf("No record found for %s.", card)
}

func accountSummary(ident *domain.Identity) string {
	return fmt.Sprintf("Account for %s\nPhone: %s\nStatus: %s", ident.Name, ident.Phone, ident.Status)
}
