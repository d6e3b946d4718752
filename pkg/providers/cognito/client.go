// Package cognito adapts the Amazon Cognito IdentityProvider API to the
// poolimport.PoolAPI capability interface.
package cognito

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ciptypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"github.com/cloudpool/poolimport/pkg/poolimport"
)

// defaultPageSize is the page size requested from listing operations.
// ListUserPools caps MaxResults at 60.
const defaultPageSize = 60

// API abstracts the Cognito SDK operations the adapter uses, for testing.
type API interface {
	ListUserPools(ctx context.Context, in *cip.ListUserPoolsInput, optFns ...func(*cip.Options)) (*cip.ListUserPoolsOutput, error)
	DescribeUserPool(ctx context.Context, in *cip.DescribeUserPoolInput, optFns ...func(*cip.Options)) (*cip.DescribeUserPoolOutput, error)
	ListUserPoolClients(ctx context.Context, in *cip.ListUserPoolClientsInput, optFns ...func(*cip.Options)) (*cip.ListUserPoolClientsOutput, error)
	DescribeUserPoolClient(ctx context.Context, in *cip.DescribeUserPoolClientInput, optFns ...func(*cip.Options)) (*cip.DescribeUserPoolClientOutput, error)
	ListIdentityProviders(ctx context.Context, in *cip.ListIdentityProvidersInput, optFns ...func(*cip.Options)) (*cip.ListIdentityProvidersOutput, error)
	DescribeIdentityProvider(ctx context.Context, in *cip.DescribeIdentityProviderInput, optFns ...func(*cip.Options)) (*cip.DescribeIdentityProviderOutput, error)
	GetUserPoolMfaConfig(ctx context.Context, in *cip.GetUserPoolMfaConfigInput, optFns ...func(*cip.Options)) (*cip.GetUserPoolMfaConfigOutput, error)
}

// Client implements poolimport.PoolAPI over the Cognito SDK.
type Client struct {
	api      API
	pageSize int32
}

// Option configures the Client.
type Option func(*Client)

// WithAPI sets the backing SDK client. Used by tests to inject a fake.
func WithAPI(api API) Option {
	return func(c *Client) {
		c.api = api
	}
}

// WithPageSize sets the page size for listing operations.
func WithPageSize(n int32) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

// New creates a Cognito adapter from an AWS configuration.
func New(cfg aws.Config, opts ...Option) *Client {
	c := &Client{
		api:      cip.NewFromConfig(cfg),
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListPoolsPage implements poolimport.PoolAPI.
func (c *Client) ListPoolsPage(ctx context.Context, cursor string) (poolimport.PoolPage, error) {
	in := &cip.ListUserPoolsInput{
		MaxResults: aws.Int32(c.pageSize),
	}
	if cursor != "" {
		in.NextToken = aws.String(cursor)
	}

	out, err := c.api.ListUserPools(ctx, in)
	if err != nil {
		return poolimport.PoolPage{}, classify(err, "ListUserPools")
	}

	page := poolimport.PoolPage{Cursor: aws.ToString(out.NextToken)}
	for _, p := range out.UserPools {
		page.Pools = append(page.Pools, poolimport.PoolSummary{
			ID:   aws.ToString(p.Id),
			Name: aws.ToString(p.Name),
		})
	}
	return page, nil
}

// DescribePool implements poolimport.PoolAPI.
func (c *Client) DescribePool(ctx context.Context, poolID string) (*poolimport.Directory, error) {
	out, err := c.api.DescribeUserPool(ctx, &cip.DescribeUserPoolInput{
		UserPoolId: aws.String(poolID),
	})
	if err != nil {
		return nil, classify(err, "DescribeUserPool")
	}
	pool := out.UserPool
	if pool == nil {
		return nil, poolimport.ErrNotFound("user pool", poolID)
	}

	return &poolimport.Directory{
		ID:             aws.ToString(pool.Id),
		Name:           aws.ToString(pool.Name),
		Domain:         aws.ToString(pool.Domain),
		LambdaTriggers: lambdaTriggers(pool.LambdaConfig),
		MfaMode:        poolimport.MfaMode(pool.MfaConfiguration),
	}, nil
}

// ListPoolClientsPage implements poolimport.PoolAPI.
func (c *Client) ListPoolClientsPage(ctx context.Context, poolID, cursor string) (poolimport.ClientPage, error) {
	in := &cip.ListUserPoolClientsInput{
		UserPoolId: aws.String(poolID),
		MaxResults: aws.Int32(c.pageSize),
	}
	if cursor != "" {
		in.NextToken = aws.String(cursor)
	}

	out, err := c.api.ListUserPoolClients(ctx, in)
	if err != nil {
		return poolimport.ClientPage{}, classify(err, "ListUserPoolClients")
	}

	page := poolimport.ClientPage{Cursor: aws.ToString(out.NextToken)}
	for _, cl := range out.UserPoolClients {
		page.Clients = append(page.Clients, poolimport.ClientSummary{
			ID:   aws.ToString(cl.ClientId),
			Name: aws.ToString(cl.ClientName),
		})
	}
	return page, nil
}

// DescribePoolClient implements poolimport.PoolAPI.
func (c *Client) DescribePoolClient(ctx context.Context, poolID, clientID string) (*poolimport.ClientRegistration, error) {
	out, err := c.api.DescribeUserPoolClient(ctx, &cip.DescribeUserPoolClientInput{
		UserPoolId: aws.String(poolID),
		ClientId:   aws.String(clientID),
	})
	if err != nil {
		return nil, classify(err, "DescribeUserPoolClient")
	}
	client := out.UserPoolClient
	if client == nil {
		return nil, poolimport.ErrNotFound("app client", clientID)
	}

	flows := make([]string, 0, len(client.AllowedOAuthFlows))
	for _, f := range client.AllowedOAuthFlows {
		flows = append(flows, string(f))
	}

	return &poolimport.ClientRegistration{
		ID:            aws.ToString(client.ClientId),
		Name:          aws.ToString(client.ClientName),
		Secret:        aws.ToString(client.ClientSecret),
		Providers:     client.SupportedIdentityProviders,
		CallbackURLs:  client.CallbackURLs,
		LogoutURLs:    client.LogoutURLs,
		AllowedFlows:  flows,
		AllowedScopes: client.AllowedOAuthScopes,
		FlowsEnabled:  aws.ToBool(client.AllowedOAuthFlowsUserPoolClient),
	}, nil
}

// ListIdentityProvidersPage implements poolimport.PoolAPI.
func (c *Client) ListIdentityProvidersPage(ctx context.Context, poolID, cursor string) (poolimport.ProviderPage, error) {
	in := &cip.ListIdentityProvidersInput{
		UserPoolId: aws.String(poolID),
		MaxResults: aws.Int32(c.pageSize),
	}
	if cursor != "" {
		in.NextToken = aws.String(cursor)
	}

	out, err := c.api.ListIdentityProviders(ctx, in)
	if err != nil {
		return poolimport.ProviderPage{}, classify(err, "ListIdentityProviders")
	}

	page := poolimport.ProviderPage{Cursor: aws.ToString(out.NextToken)}
	for _, p := range out.Providers {
		page.Names = append(page.Names, aws.ToString(p.ProviderName))
	}
	return page, nil
}

// DescribeIdentityProvider implements poolimport.PoolAPI.
func (c *Client) DescribeIdentityProvider(ctx context.Context, poolID, name string) (*poolimport.IdentityProviderBinding, error) {
	out, err := c.api.DescribeIdentityProvider(ctx, &cip.DescribeIdentityProviderInput{
		UserPoolId:   aws.String(poolID),
		ProviderName: aws.String(name),
	})
	if err != nil {
		return nil, classify(err, "DescribeIdentityProvider")
	}
	idp := out.IdentityProvider
	if idp == nil {
		return nil, poolimport.ErrNotFound("identity provider", name)
	}

	return &poolimport.IdentityProviderBinding{
		Provider:     aws.ToString(idp.ProviderName),
		ClientID:     idp.ProviderDetails["client_id"],
		ClientSecret: idp.ProviderDetails["client_secret"],
	}, nil
}

// GetMfaConfig implements poolimport.PoolAPI.
func (c *Client) GetMfaConfig(ctx context.Context, poolID string) (*poolimport.MfaDetail, error) {
	out, err := c.api.GetUserPoolMfaConfig(ctx, &cip.GetUserPoolMfaConfigInput{
		UserPoolId: aws.String(poolID),
	})
	if err != nil {
		return nil, classify(err, "GetUserPoolMfaConfig")
	}

	detail := &poolimport.MfaDetail{
		Mode: poolimport.MfaMode(out.MfaConfiguration),
	}
	if sms := out.SmsMfaConfiguration; sms != nil && sms.SmsConfiguration != nil {
		detail.SmsConfigured = true
		detail.SnsCallerARN = aws.ToString(sms.SmsConfiguration.SnsCallerArn)
	}
	return detail, nil
}

// lambdaTriggers flattens a pool's lambda hook configuration into a name to
// ARN map, keeping only configured triggers.
func lambdaTriggers(cfg *ciptypes.LambdaConfigType) map[string]string {
	if cfg == nil {
		return nil
	}

	triggers := map[string]*string{
		"PreSignUp":                   cfg.PreSignUp,
		"PreAuthentication":           cfg.PreAuthentication,
		"PostAuthentication":          cfg.PostAuthentication,
		"PostConfirmation":            cfg.PostConfirmation,
		"CustomMessage":               cfg.CustomMessage,
		"DefineAuthChallenge":         cfg.DefineAuthChallenge,
		"CreateAuthChallenge":         cfg.CreateAuthChallenge,
		"VerifyAuthChallengeResponse": cfg.VerifyAuthChallengeResponse,
		"UserMigration":               cfg.UserMigration,
	}

	out := make(map[string]string)
	for name, arn := range triggers {
		if v := aws.ToString(arn); v != "" {
			out[name] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// classify maps SDK errors onto the import error taxonomy. Resource lookups
// that miss become not-found; everything else is an upstream failure.
func classify(err error, operation string) error {
	var nf *ciptypes.ResourceNotFoundException
	if errors.As(err, &nf) {
		return poolimport.NewError(poolimport.ErrCategoryNotFound, aws.ToString(nf.Message)).
			WithOperation(operation).
			WithCause(err)
	}
	return poolimport.ErrUpstream(fmt.Sprintf("%s failed", operation)).
		WithOperation(operation).
		WithCause(err)
}
