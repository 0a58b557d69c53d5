package whois

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WangYihang/domain-triage/pkg/domain/entity"
)

const registeredRecord = `   Domain Name: EXAMPLE.COM
   Registry Domain ID: 2336799_DOMAIN_COM-VRSN
   Registrar WHOIS Server: whois.iana.org
   Updated Date: 2024-08-14T07:01:34Z
   Creation Date: 1995-08-14T04:00:00Z
   Registry Expiry Date: 2025-08-13T04:00:00Z
   Registrar: RESERVED-Internet Assigned Numbers Authority
   Registrar IANA ID: 376
   Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
   Name Server: A.IANA-SERVERS.NET
   Name Server: B.IANA-SERVERS.NET
`

const missingRecord = `No match for "NOTHING-HERE-AT-ALL.COM".
>>> Last update of whois database: 2026-10-17T10:00:00Z <<<
`

func lookupReturning(raw string, err error) *Lookup {
	return &Lookup{query: func(string) (string, error) { return raw, err }}
}

func TestLookup_Registered(t *testing.T) {
	reg, err := lookupReturning(registeredRecord, nil).Lookup(context.Background(), "example.com")
	require.NoError(t, err)

	assert.True(t, reg.Registered)
	assert.Equal(t, "example.com", reg.Domain)
	assert.Equal(t, "RESERVED-Internet Assigned Numbers Authority", reg.Registrar)
	assert.Equal(t, registeredRecord, reg.Raw)
}

func TestLookup_NotFound(t *testing.T) {
	reg, err := lookupReturning(missingRecord, nil).Lookup(context.Background(), "nothing-here-at-all.com")
	require.NoError(t, err)
	assert.False(t, reg.Registered)
}

func TestLookup_QueryError(t *testing.T) {
	_, err := lookupReturning("", errors.New("connection reset")).Lookup(context.Background(), "example.com")

	var unknown *entity.RegistrationUnknown
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "example.com", unknown.Domain)
	assert.ErrorContains(t, err, "connection reset")
}

func TestLookup_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	l := &Lookup{query: func(string) (string, error) {
		<-release
		return registeredRecord, nil
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := l.Lookup(ctx, "example.com")

	var unknown *entity.RegistrationUnknown
	require.ErrorAs(t, err, &unknown)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
