package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"promptline/application/ports"
	domaincfg "promptline/domain/config"
	"promptline/domain/core/aggregates"
	"promptline/domain/core/entities"
	"promptline/domain/core/valueobjects"
	pkgerrors "promptline/pkg/errors"
)

// LineageRepository implements ports.LineageRepository on DynamoDB.
// Revision SKs embed the RFC3339Nano creation time, so a time window
// maps to a single key-condition BETWEEN.
type LineageRepository struct {
	client    *dynamodb.Client
	tableName string
	cfg       *domaincfg.DomainConfig
	logger    *zap.Logger
}

// NewLineageRepository creates a new LineageRepository
func NewLineageRepository(client *dynamodb.Client, tableName string, cfg *domaincfg.DomainConfig, logger *zap.Logger) ports.LineageRepository {
	return &LineageRepository{
		client:    client,
		tableName: tableName,
		cfg:       cfg,
		logger:    logger,
	}
}

// revisionItem is the DynamoDB item shape for a revision
type revisionItem struct {
	PK              string   `dynamodbav:"PK"` // SUBJECT#<subject_id>
	SK              string   `dynamodbav:"SK"` // REV#<created_at>#<revision_id>
	EntityType      string   `dynamodbav:"EntityType"`
	RevisionID      string   `dynamodbav:"RevisionID"`
	SubjectID       string   `dynamodbav:"SubjectID"`
	SequenceNo      int      `dynamodbav:"SequenceNo"`
	Text            string   `dynamodbav:"Text"`
	ParentID        string   `dynamodbav:"ParentID,omitempty"`
	CreatedAt       string   `dynamodbav:"CreatedAt"`
	ChangeType      string   `dynamodbav:"ChangeType"`
	ChangeMagnitude float64  `dynamodbav:"ChangeMagnitude"`
	Score           *float64 `dynamodbav:"Score,omitempty"`
	Clarity         *float64 `dynamodbav:"Clarity,omitempty"`
	Specificity     *float64 `dynamodbav:"Specificity,omitempty"`
	Actionability   *float64 `dynamodbav:"Actionability,omitempty"`
	Structure       *float64 `dynamodbav:"Structure,omitempty"`
	ContextUse      *float64 `dynamodbav:"ContextUse,omitempty"`
}

// bestHeadItem tracks the subject's highest-scoring revision
type bestHeadItem struct {
	PK         string  `dynamodbav:"PK"` // SUBJECT#<subject_id>
	SK         string  `dynamodbav:"SK"` // BESTHEAD
	EntityType string  `dynamodbav:"EntityType"`
	RevisionID string  `dynamodbav:"RevisionID"`
	Score      float64 `dynamodbav:"Score"`
	UpdatedAt  string  `dynamodbav:"UpdatedAt"`
}

func revisionSK(createdAt time.Time, id valueobjects.RevisionID) string {
	return fmt.Sprintf("REV#%s#%s", createdAt.UTC().Format(time.RFC3339Nano), id.String())
}

// SaveRevision persists one revision
func (r *LineageRepository) SaveRevision(ctx context.Context, rev *entities.Revision) error {
	item := revisionItem{
		PK:              subjectPK(rev.SubjectID()),
		SK:              revisionSK(rev.CreatedAt(), rev.ID()),
		EntityType:      "REVISION",
		RevisionID:      rev.ID().String(),
		SubjectID:       rev.SubjectID().String(),
		SequenceNo:      rev.SequenceNo(),
		Text:            rev.Text().Body(),
		CreatedAt:       rev.CreatedAt().Format(time.RFC3339Nano),
		ChangeType:      rev.ChangeType().String(),
		ChangeMagnitude: rev.ChangeMagnitude(),
		Score:           rev.Score(),
	}
	if pid := rev.ParentID(); pid != nil {
		item.ParentID = pid.String()
	}
	if card := rev.ScoreCard(); card != nil {
		clarity, specificity := card.Clarity(), card.Specificity()
		actionability, structure, contextUse := card.Actionability(), card.Structure(), card.ContextUse()
		item.Clarity = &clarity
		item.Specificity = &specificity
		item.Actionability = &actionability
		item.Structure = &structure
		item.ContextUse = &contextUse
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal revision", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("failed to save revision",
			zap.String("subject_id", rev.SubjectID().String()),
			zap.String("revision_id", rev.ID().String()),
			zap.Error(err))
		return pkgerrors.NewDatabaseError("save revision", err)
	}
	return nil
}

// GetBySubjectID loads every revision and rebuilds the aggregate
func (r *LineageRepository) GetBySubjectID(ctx context.Context, subjectID valueobjects.SubjectID) (*aggregates.Lineage, error) {
	revisions, err := r.GetRevisionsInWindow(ctx, subjectID, nil, nil)
	if err != nil {
		return nil, err
	}
	return aggregates.ReconstructLineage(subjectID, revisions, r.cfg)
}

// GetRevision retrieves one revision. The SK embeds the creation time,
// so a point lookup filters on the RevisionID attribute instead.
func (r *LineageRepository) GetRevision(ctx context.Context, subjectID valueobjects.SubjectID, revisionID valueobjects.RevisionID) (*entities.Revision, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(subjectPK(subjectID))).
		And(expression.Key("SK").BeginsWith("REV#"))
	filter := expression.Name("RevisionID").Equal(expression.Value(revisionID.String()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build revision query", err)
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("get revision", err)
		}
		for _, raw := range page.Items {
			var item revisionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewInternalError("failed to unmarshal revision", err)
			}
			return r.toEntity(item)
		}
	}
	return nil, pkgerrors.NewNotFoundError("revision")
}

// GetRevisionsInWindow queries revisions inside [start, end] ordered
// by the time-sorted SK. Nil bounds are open.
func (r *LineageRepository) GetRevisionsInWindow(ctx context.Context, subjectID valueobjects.SubjectID, start, end *time.Time) ([]*entities.Revision, error) {
	pk := expression.Key("PK").Equal(expression.Value(subjectPK(subjectID)))

	var keyCond expression.KeyConditionBuilder
	switch {
	case start != nil && end != nil:
		// The trailing ~ sorts after every UUID suffix at that instant.
		lo := fmt.Sprintf("REV#%s", start.UTC().Format(time.RFC3339Nano))
		hi := fmt.Sprintf("REV#%s~", end.UTC().Format(time.RFC3339Nano))
		keyCond = pk.And(expression.Key("SK").Between(expression.Value(lo), expression.Value(hi)))
	case start != nil:
		lo := fmt.Sprintf("REV#%s", start.UTC().Format(time.RFC3339Nano))
		keyCond = pk.And(expression.Key("SK").GreaterThanEqual(expression.Value(lo)))
	case end != nil:
		hi := fmt.Sprintf("REV#%s~", end.UTC().Format(time.RFC3339Nano))
		keyCond = pk.And(expression.Key("SK").Between(expression.Value("REV#"), expression.Value(hi)))
	default:
		keyCond = pk.And(expression.Key("SK").BeginsWith("REV#"))
	}

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build window query", err)
	}

	revisions := []*entities.Revision{}
	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query revisions", err)
		}
		for _, raw := range page.Items {
			var item revisionItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewInternalError("failed to unmarshal revision", err)
			}
			rev, err := r.toEntity(item)
			if err != nil {
				return nil, err
			}
			revisions = append(revisions, rev)
		}
	}
	return revisions, nil
}

// SaveBestHead records the subject's best revision pointer
func (r *LineageRepository) SaveBestHead(ctx context.Context, subjectID valueobjects.SubjectID, revisionID valueobjects.RevisionID, score float64) error {
	item := bestHeadItem{
		PK:         subjectPK(subjectID),
		SK:         "BESTHEAD",
		EntityType: "BESTHEAD",
		RevisionID: revisionID.String(),
		Score:      score,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal best head", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkgerrors.NewDatabaseError("save best head", err)
	}
	return nil
}

// GetBestHead returns the best-head pointer, or nil if unset
func (r *LineageRepository) GetBestHead(ctx context.Context, subjectID valueobjects.SubjectID) (*valueobjects.RevisionID, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: subjectPK(subjectID)},
			"SK": &types.AttributeValueMemberS{Value: "BESTHEAD"},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get best head", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var item bestHeadItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal best head", err)
	}
	id, err := valueobjects.NewRevisionIDFromString(item.RevisionID)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt best head in store", err)
	}
	return &id, nil
}

func (r *LineageRepository) toEntity(item revisionItem) (*entities.Revision, error) {
	id, err := valueobjects.NewRevisionIDFromString(item.RevisionID)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt revision ID in store", err)
	}
	subjectID, err := valueobjects.NewSubjectIDFromString(item.SubjectID)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt subject ID in store", err)
	}
	text := valueobjects.ReconstructPromptText(item.Text)
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt revision timestamp in store", err)
	}
	changeType, err := valueobjects.ParseChangeType(item.ChangeType)
	if err != nil {
		return nil, pkgerrors.NewInternalError("corrupt change type in store", err)
	}

	var parentID *valueobjects.RevisionID
	if item.ParentID != "" {
		pid, err := valueobjects.NewRevisionIDFromString(item.ParentID)
		if err != nil {
			return nil, pkgerrors.NewInternalError("corrupt parent ID in store", err)
		}
		parentID = &pid
	}

	var card *valueobjects.ScoreCard
	if item.Clarity != nil && item.Specificity != nil && item.Actionability != nil &&
		item.Structure != nil && item.ContextUse != nil {
		c, err := valueobjects.NewScoreCardWithConfig(
			*item.Clarity, *item.Specificity, *item.Actionability, *item.Structure, *item.ContextUse, r.cfg,
		)
		if err != nil {
			return nil, pkgerrors.NewInternalError("corrupt score card in store", err)
		}
		card = &c
	}

	return entities.ReconstructRevision(
		id, subjectID, item.SequenceNo, text, parentID, createdAt,
		changeType, item.ChangeMagnitude, item.Score, card,
	), nil
}
