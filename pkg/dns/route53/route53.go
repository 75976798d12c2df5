package route53

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"exhibitor2dns/pkg/dns"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	r53 "github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
)

const hostedZonePrefix = "/hostedzone/"

// Client is the slice of the Route53 API this provider uses.
type Client interface {
	ListHostedZonesByName(ctx context.Context, params *r53.ListHostedZonesByNameInput, optFns ...func(*r53.Options)) (*r53.ListHostedZonesByNameOutput, error)
	ListResourceRecordSets(ctx context.Context, params *r53.ListResourceRecordSetsInput, optFns ...func(*r53.Options)) (*r53.ListResourceRecordSetsOutput, error)
	ChangeResourceRecordSets(ctx context.Context, params *r53.ChangeResourceRecordSetsInput, optFns ...func(*r53.Options)) (*r53.ChangeResourceRecordSetsOutput, error)
}

// Provider implements dns.API against Route53.
type Provider struct {
	client Client
}

// New builds a Provider from ambient AWS configuration (env, shared
// config, instance role); credentials are never passed explicitly.
func New(ctx context.Context) (*Provider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return NewWithClient(r53.NewFromConfig(cfg)), nil
}

func NewWithClient(client Client) *Provider {
	return &Provider{client: client}
}

// ZoneID returns the identifier of the first hosted zone matching name.
func (p *Provider) ZoneID(name string) (string, error) {
	out, err := p.client.ListHostedZonesByName(context.Background(), &r53.ListHostedZonesByNameInput{
		DNSName: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("listing hosted zones: %w", err)
	}
	if len(out.HostedZones) == 0 {
		return "", fmt.Errorf("no hosted zone found for %s", name)
	}
	return strings.TrimPrefix(aws.ToString(out.HostedZones[0].Id), hostedZonePrefix), nil
}

// Values lists A records starting at fqdn and collects the values of the
// sets whose name matches exactly. The list call is a range scan, so
// records alphabetically after fqdn come back too and must be filtered out.
func (p *Provider) Values(zoneID string, fqdn string) ([]string, error) {
	out, err := p.client.ListResourceRecordSets(context.Background(), &r53.ListResourceRecordSetsInput{
		HostedZoneId:    aws.String(zoneID),
		StartRecordName: aws.String(fqdn),
		StartRecordType: r53types.RRTypeA,
	})
	if err != nil {
		return nil, fmt.Errorf("listing record sets at %s: %w", fqdn, err)
	}

	values := []string{}
	for _, recordSet := range out.ResourceRecordSets {
		if aws.ToString(recordSet.Name) != fqdn {
			continue
		}
		for _, record := range recordSet.ResourceRecords {
			values = append(values, aws.ToString(record.Value))
		}
	}
	sort.Strings(values)
	return values, nil
}

// Upsert submits one UPSERT change batch replacing the record's value list
// and TTL. An empty value list makes no API call: Route53 rejects empty
// record sets.
func (p *Provider) Upsert(zoneID string, record dns.RecordSet) error {
	if len(record.Values) == 0 {
		return nil
	}

	resourceRecords := make([]r53types.ResourceRecord, 0, len(record.Values))
	for _, value := range record.Values {
		resourceRecords = append(resourceRecords, r53types.ResourceRecord{Value: aws.String(value)})
	}

	_, err := p.client.ChangeResourceRecordSets(context.Background(), &r53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch: &r53types.ChangeBatch{
			Changes: []r53types.Change{
				{
					Action: r53types.ChangeActionUpsert,
					ResourceRecordSet: &r53types.ResourceRecordSet{
						Name:            aws.String(record.Name),
						Type:            r53types.RRTypeA,
						TTL:             aws.Int64(record.TTL),
						ResourceRecords: resourceRecords,
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upserting %s: %w", record.Name, err)
	}
	return nil
}
