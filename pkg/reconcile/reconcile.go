package reconcile

import (
	"fmt"
	"sort"

	"exhibitor2dns/pkg/dns"

	log "github.com/sirupsen/logrus"
)

// Action is the reconcile decision for a single record.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionNone   Action = "none"
)

// Result reports the outcome of one record's reconcile. A failed upsert is
// carried in Err rather than aborting; the driver logs it and moves on.
type Result struct {
	FQDN   string
	Action Action
	Err    error
}

// MemberSource yields the current ensemble member addresses, sorted.
type MemberSource interface {
	Servers() ([]string, error)
}

// Syncer reconciles individual records in one zone against desired values.
type Syncer struct {
	API    dns.API
	ZoneID string
	TTL    int64
}

// Ensure compares the record's existing values against desired and upserts
// when they differ. The returned error covers only the read of existing
// state; upsert failures land in the Result.
func (s *Syncer) Ensure(fqdn string, desired []string) (Result, error) {
	existing, err := s.API.Values(s.ZoneID, fqdn)
	if err != nil {
		return Result{}, err
	}

	res := Result{FQDN: fqdn}
	switch {
	case len(existing) == 0:
		log.Infof("Creating new record: %s", fqdn)
		res.Action = ActionCreate
		res.Err = s.upsert(fqdn, desired)
	case valuesEqual(desired, existing):
		log.Infof("Existing record: %v", existing)
		log.Info("Up to date.")
		res.Action = ActionNone
	default:
		log.Infof("Existing record: %v", existing)
		log.Info("Updating record to match")
		res.Action = ActionUpdate
		res.Err = s.upsert(fqdn, desired)
	}
	return res, nil
}

func (s *Syncer) upsert(fqdn string, values []string) error {
	return s.API.Upsert(s.ZoneID, dns.RecordSet{
		Name:   fqdn,
		Values: values,
		TTL:    s.TTL,
	})
}

// valuesEqual is equality of sorted sequences. Duplicates are kept, not
// collapsed, matching the provider's record value list semantics.
func valuesEqual(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// Run performs one full pass: the aggregate record gets all member
// addresses, then each member gets its own zk%02d record in sorted-address
// order. Zone lookup and member fetch failures abort the run; per-record
// upsert failures are logged and skipped.
func Run(api dns.API, ensemble MemberSource, zone string, rr string, ttl int64) error {
	zoneID, err := api.ZoneID(zone)
	if err != nil {
		return fmt.Errorf("looking up zone %s: %w", zone, err)
	}

	target := dns.FQDN(rr, zone)
	log.Infof("Managing route53 record: %s", target)

	members, err := ensemble.Servers()
	if err != nil {
		return fmt.Errorf("fetching ensemble members: %w", err)
	}
	log.Infof("Exhibitor cluster: %v", members)

	sorted := append([]string(nil), members...)
	sort.Strings(sorted)

	syncer := &Syncer{API: api, ZoneID: zoneID, TTL: ttl}

	res, err := syncer.Ensure(target, sorted)
	if err != nil {
		return err
	}
	logResult(res)

	for i, addr := range sorted {
		fqdn := dns.MemberFQDN(i+1, zone)
		log.Infof("target_fqdn: %s ip: %s", fqdn, addr)
		res, err := syncer.Ensure(fqdn, []string{addr})
		if err != nil {
			return err
		}
		logResult(res)
	}

	log.Info("Done!")
	return nil
}

func logResult(res Result) {
	if res.Err != nil {
		log.Errorf("failed to upsert record %s: %s", res.FQDN, res.Err)
	}
}
