package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sikacredit/ussd-api/internal/domain"
)

// LoanRepo provides typed DynamoDB operations for the loans table.
type LoanRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewLoanRepo(client *dynamodb.Client, tableName string) *LoanRepo {
	return &LoanRepo{client: client, tableName: tableName}
}

func (r *LoanRepo) Put(ctx context.Context, l *domain.Loan) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal loan: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *LoanRepo) Get(ctx context.Context, loanID string) (*domain.Loan, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("loan_id", loanID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("loan %s: %w", loanID, domain.ErrNotFound)
	}
	var l domain.Loan
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByIdentity returns the identity's most recent loans, newest first,
// capped at limit.
func (r *LoanRepo) ListByIdentity(ctx context.Context, identityID string, limit int32) ([]domain.Loan, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("identity_id-created_at-index"),
		KeyConditionExpression:    aws.String("identity_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":id": &types.AttributeValueMemberS{Value: identityID}},
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(limit),
	})
	if err != nil {
		return nil, err
	}
	var loans []domain.Loan
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// LatestByIdentity returns the identity's newest loan.
func (r *LoanRepo) LatestByIdentity(ctx context.Context, identityID string) (*domain.Loan, error) {
	loans, err := r.ListByIdentity(ctx, identityID, 1)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, fmt.Errorf("loans for identity %s: %w", identityID, domain.ErrNotFound)
	}
	return &loans[0], nil
}

func (r *LoanRepo) Update(ctx context.Context, loanID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("loan_id", loanID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
