package parser

import (
	"reflect"
	"testing"
	"time"

	"snort-dashboard/internal/model"
	"snort-dashboard/internal/timestamp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNormalizer(now time.Time) *timestamp.Normalizer {
	n := timestamp.New(now.Location())
	n.Now = func() time.Time { return now }
	return n
}

// every string field must be a value or exactly the placeholder
func assertComplete(t *testing.T, a model.Alert) {
	t.Helper()
	v := reflect.ValueOf(a)
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.String {
			assert.NotEmpty(t, f.String(), "field %s is empty", v.Type().Field(i).Name)
		}
	}
	assert.Contains(t, []model.Action{model.ActionAlert, model.ActionDrop}, a.Action)
}

func TestFastParserScenario(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	p := NewFastParser(testNormalizer(time.Date(2024, 6, 1, 0, 0, 0, 0, loc)))

	line := "01/15-14:23:01.000000 [**] [1:100:1] Test Alert [**] [Classification: test] [Priority: 2] {TCP} 10.0.0.1:80 -> 10.0.0.2:443"
	a, ok := p.Parse(line)
	require.True(t, ok)

	assert.Equal(t, model.ActionAlert, a.Action)
	assert.Equal(t, "Test Alert", a.Signature)
	assert.Equal(t, "2", a.Priority)
	assert.Equal(t, "TCP", a.Protocol)
	assert.Equal(t, "10.0.0.1", a.SrcIP)
	assert.Equal(t, "80", a.SrcPort)
	assert.Equal(t, "10.0.0.2", a.DstIP)
	assert.Equal(t, "443", a.DstPort)
	assert.Equal(t, model.FormatFast, a.Format)
	require.NotNil(t, a.SortKey)
	assert.True(t, time.Date(2024, 1, 15, 14, 23, 1, 0, loc).Equal(*a.SortKey))
	assert.Equal(t, "2024-01-15 14:23:01", a.Timestamp)
	assertComplete(t, a)
}

func TestFastParserVariants(t *testing.T) {
	p := NewFastParser(testNormalizer(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	tests := []struct {
		name     string
		line     string
		action   model.Action
		sig      string
		proto    string
		src, dst string
		sport    string
		dport    string
	}{
		{
			name:   "snort3 drop with quoted message",
			line:   `01/15-14:23:01.123456 [DROP] [**] [1:2000:3] "ET SCAN Nmap" [**] [Classification: Attempted Recon] [Priority: 1] {TCP} 192.168.1.5:51234 -> 192.168.1.1:22`,
			action: model.ActionDrop, sig: "ET SCAN Nmap", proto: "TCP",
			src: "192.168.1.5", sport: "51234", dst: "192.168.1.1", dport: "22",
		},
		{
			name:   "ipv6 with ports and annotation",
			line:   `01/15-14:23:01 [**] [1:1:1] v6 probe [**] [Priority: 3] [AppID: http] {UDP} [2001:db8::1]:53 -> [2001:db8::2]:5353`,
			action: model.ActionAlert, sig: "v6 probe", proto: "UDP",
			src: "2001:db8::1", sport: "53", dst: "2001:db8::2", dport: "5353",
		},
		{
			name:   "icmp without ports",
			line:   `01/15-14:23:01 [pass] [**] [1:384:5] ICMP PING [**] [Priority: 3] {ICMP} 10.1.1.1 -> 10.1.1.2`,
			action: model.ActionAlert, sig: "ICMP PING", proto: "ICMP",
			src: "10.1.1.1", sport: "N/A", dst: "10.1.1.2", dport: "N/A",
		},
		{
			name:   "no addresses",
			line:   `01/15-14:23:01 [**] [1:1:1] bare [**]`,
			action: model.ActionAlert, sig: "bare", proto: "N/A",
			src: "N/A", sport: "N/A", dst: "N/A", dport: "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := p.Parse(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.action, a.Action)
			assert.Equal(t, tt.sig, a.Signature)
			assert.Equal(t, tt.proto, a.Protocol)
			assert.Equal(t, tt.src, a.SrcIP)
			assert.Equal(t, tt.sport, a.SrcPort)
			assert.Equal(t, tt.dst, a.DstIP)
			assert.Equal(t, tt.dport, a.DstPort)
			assertComplete(t, a)
		})
	}
}

func TestFastParserDeclines(t *testing.T) {
	p := NewFastParser(testNormalizer(time.Now()))

	for _, line := range []string{
		"",
		"plain text line",
		"01/15-14:23:01 [**] only one delimiter",
		`{"msg":"json"}`,
	} {
		_, ok := p.Parse(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestFastParserUndatedKeepsRawTimestamp(t *testing.T) {
	p := NewFastParser(testNormalizer(time.Now()))

	a, ok := p.Parse("garbage-time [**] [1:1:1] sig [**] {TCP} 1.1.1.1:1 -> 2.2.2.2:2")
	require.True(t, ok)
	assert.Nil(t, a.SortKey)
	assert.Equal(t, "garbage-time", a.Timestamp)

	a, ok = p.Parse("[**] [1:1:1] sig [**] {TCP} 1.1.1.1:1 -> 2.2.2.2:2")
	require.True(t, ok)
	assert.Nil(t, a.SortKey)
	assert.Equal(t, "N/A", a.Timestamp)
}

func TestJSONParserScenario(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	p := NewJSONParser(testNormalizer(time.Date(2024, 6, 1, 0, 0, 0, 0, loc)))

	a, ok := p.Parse(`{"timestamp":"2024-01-15T14:23:01Z","action":"drop","src_ip":"1.2.3.4","msg":"test"}`)
	require.True(t, ok)

	assert.Equal(t, model.ActionDrop, a.Action)
	assert.Equal(t, "test", a.Signature)
	assert.Equal(t, "1.2.3.4", a.SrcIP)
	assert.Equal(t, "N/A", a.SrcPort)
	assert.Equal(t, "N/A", a.DstIP)
	require.NotNil(t, a.SortKey)
	assert.True(t, time.Date(2024, 1, 15, 14, 23, 1, 0, time.UTC).Equal(*a.SortKey))
	assert.Equal(t, "2024-01-15 21:23:01", a.Timestamp)
	assertComplete(t, a)
}

func TestJSONParserShapes(t *testing.T) {
	p := NewJSONParser(testNormalizer(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	tests := []struct {
		name                 string
		line                 string
		sig, proto, priority string
		action               model.Action
		src, sport           string
		dst, dport           string
	}{
		{
			name:   "snort3 alert_json",
			line:   `{"timestamp":"01/15-14:23:01.000000","msg":"ET POLICY","proto":"TCP","priority":2,"action":"blocked","src_ap":"10.0.0.1:1234","dst_ap":"10.0.0.2:80"}`,
			sig:    "ET POLICY", proto: "TCP", priority: "2", action: model.ActionDrop,
			src: "10.0.0.1", sport: "1234", dst: "10.0.0.2", dport: "80",
		},
		{
			name:   "suricata eve",
			line:   `{"timestamp":"2024-01-15T14:23:01.000123+0000","event_type":"alert","src_ip":"10.0.0.1","src_port":5353,"dest_ip":"10.0.0.2","dest_port":53,"proto":"UDP","alert":{"action":"allowed","signature":"DNS query","severity":3}}`,
			sig:    "DNS query", proto: "UDP", priority: "3", action: model.ActionAlert,
			src: "10.0.0.1", sport: "5353", dst: "10.0.0.2", dport: "53",
		},
		{
			name:   "nested endpoint objects",
			line:   `{"time":1705328581,"message":"nested","alert":{"action":"Dropped","proto":"ICMP"},"source":{"address":"172.16.0.1","sport":"0"},"destination":{"ip":"172.16.0.2","dport":8}}`,
			sig:    "nested", proto: "ICMP", priority: "N/A", action: model.ActionDrop,
			src: "172.16.0.1", sport: "0", dst: "172.16.0.2", dport: "8",
		},
		{
			name:   "bracketed ipv6",
			line:   `{"event":{"timestamp":"2024-01-15 14:23:01"},"msg":"v6","src":"[2001:db8::1]:443","dst":"2001:db8::2"}`,
			sig:    "v6", proto: "N/A", priority: "N/A", action: model.ActionAlert,
			src: "2001:db8::1", sport: "443", dst: "2001:db8::2", dport: "N/A",
		},
		{
			name:   "flat addr keys",
			line:   `{"msg":"","message":"fallback message","src_addr":"8.8.8.8","src_port":"53","dst_addr":"9.9.9.9","dport":"1000"}`,
			sig:    "fallback message", proto: "N/A", priority: "N/A", action: model.ActionAlert,
			src: "8.8.8.8", sport: "53", dst: "9.9.9.9", dport: "1000",
		},
		{
			name:   "exponent and float numbers",
			line:   `{"msg":"numbers","priority":1e0,"src_ip":"10.0.0.1","src_port":80.0,"dst_ip":"10.0.0.2","dst_port":4.43e2,"proto":"TCP"}`,
			sig:    "numbers", proto: "TCP", priority: "1", action: model.ActionAlert,
			src: "10.0.0.1", sport: "80", dst: "10.0.0.2", dport: "443",
		},
		{
			name:   "fractional priority",
			line:   `{"msg":"fraction","priority":2.5}`,
			sig:    "fraction", proto: "N/A", priority: "2.5", action: model.ActionAlert,
			src: "N/A", sport: "N/A", dst: "N/A", dport: "N/A",
		},
		{
			name:   "empty object",
			line:   `{}`,
			sig:    "N/A", proto: "N/A", priority: "N/A", action: model.ActionAlert,
			src: "N/A", sport: "N/A", dst: "N/A", dport: "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := p.Parse(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.sig, a.Signature)
			assert.Equal(t, tt.proto, a.Protocol)
			assert.Equal(t, tt.priority, a.Priority)
			assert.Equal(t, tt.action, a.Action)
			assert.Equal(t, tt.src, a.SrcIP)
			assert.Equal(t, tt.sport, a.SrcPort)
			assert.Equal(t, tt.dst, a.DstIP)
			assert.Equal(t, tt.dport, a.DstPort)
			assertComplete(t, a)
		})
	}
}

func TestJSONParserDeclines(t *testing.T) {
	p := NewJSONParser(testNormalizer(time.Now()))

	for _, line := range []string{
		"",
		"not json",
		`{"broken":`,
		`[1,2,3]`,
		`42`,
		`{"a":1} trailing`,
		"01/15-14:23:01 [**] [1:1:1] fast [**] {TCP} 1.1.1.1 -> 2.2.2.2",
	} {
		_, ok := p.Parse(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestChainOrderAndSkips(t *testing.T) {
	c := Default(testNormalizer(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"json", "fast"}, c.Names())

	a, ok := c.Parse(`  {"msg":"from json [**] lookalike [**] x"}  `)
	require.True(t, ok)
	assert.Equal(t, model.FormatJSON, a.Format)

	a, ok = c.Parse("01/15-14:23:01 [**] [1:1:1] fast [**] {TCP} 1.1.1.1:1 -> 2.2.2.2:2")
	require.True(t, ok)
	assert.Equal(t, model.FormatFast, a.Format)

	for _, line := range []string{"", "   ", "\t", "random noise", "{not json"} {
		_, ok := c.Parse(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		in, ip, port string
	}{
		{"10.0.0.1:80", "10.0.0.1", "80"},
		{"10.0.0.1", "10.0.0.1", ""},
		{"[::1]:8080", "::1", "8080"},
		{"[fe80::1]", "fe80::1", ""},
		{"fe80::1", "fe80::1", ""},
		{"  ", "", ""},
	}
	for _, tt := range tests {
		ip, port := splitEndpoint(tt.in)
		assert.Equal(t, tt.ip, ip, tt.in)
		assert.Equal(t, tt.port, port, tt.in)
	}
}
