package parser

import (
	"encoding/json"
	"io"
	"strings"

	"snort-dashboard/internal/model"
	"snort-dashboard/internal/timestamp"
)

// key-paths per logical field, tried in order
var (
	timestampPaths = Paths("timestamp", "time", "event.timestamp", "event.time", "alert.timestamp")
	signaturePaths = Paths("msg", "message", "alert.signature", "alert.msg")
	actionPaths    = Paths("alert.action", "action", "event_type")
	protocolPaths  = Paths("alert.proto", "alert.protocol", "proto", "protocol")
	priorityPaths  = Paths("alert.priority", "alert.severity", "priority", "severity")
)

// endpointKeys locates one side of a connection in a JSON alert
type endpointKeys struct {
	ip       []KeyPath
	port     []KeyPath
	combined []KeyPath
}

var (
	sourceKeys = endpointKeys{
		ip:       Paths("src_ip", "src_addr"),
		port:     Paths("src_port", "sport"),
		combined: Paths("src_ap", "src", "source"),
	}
	destinationKeys = endpointKeys{
		ip:       Paths("dst_ip", "dest_ip", "dst_addr", "dest_addr"),
		port:     Paths("dst_port", "dest_port", "dport"),
		combined: Paths("dst_ap", "dst", "dest", "destination"),
	}

	nestedIPPaths   = Paths("ip", "addr", "address")
	nestedPortPaths = Paths("port", "sport", "dport")
)

// JSONParser reads Snort alert_json and Suricata eve style lines
type JSONParser struct {
	normalizer *timestamp.Normalizer
}

// NewJSONParser creates a new JSON line parser
func NewJSONParser(normalizer *timestamp.Normalizer) *JSONParser {
	return &JSONParser{normalizer: normalizer}
}

func (p *JSONParser) Name() string {
	return string(model.FormatJSON)
}

// Parse decodes line as a JSON object. Anything else is reported as no match.
func (p *JSONParser) Parse(line string) (model.Alert, bool) {
	raw, ok := decodeObject(line)
	if !ok {
		return model.Alert{}, false
	}

	alert := model.NewAlert(model.FormatJSON)

	tsValue, _ := lookupRaw(raw, timestampPaths)
	ts := p.normalizer.Normalize(tsValue)
	alert.Timestamp = model.OrNA(ts.Display)
	alert.SortKey = ts.Time

	if v, ok := lookup(raw, signaturePaths); ok {
		alert.Signature = v
	}
	if v, ok := lookup(raw, actionPaths); ok {
		alert.Action = model.ParseAction(v)
	}
	if v, ok := lookup(raw, protocolPaths); ok {
		alert.Protocol = v
	}
	if v, ok := lookup(raw, priorityPaths); ok {
		alert.Priority = v
	}

	alert.SrcIP, alert.SrcPort = extractEndpoint(raw, sourceKeys)
	alert.DstIP, alert.DstPort = extractEndpoint(raw, destinationKeys)

	return alert, true
}

func decodeObject(line string) (map[string]interface{}, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, false
	}
	// trailing garbage after the object means the line is not JSON
	var extra interface{}
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, false
	}
	return raw, true
}

// extractEndpoint prefers explicit ip/port keys and fills gaps from combined forms
func extractEndpoint(raw map[string]interface{}, keys endpointKeys) (string, string) {
	ip, _ := lookup(raw, keys.ip)
	port, _ := lookup(raw, keys.port)

	if ip == "" || port == "" {
		cIP, cPort := combinedEndpoint(raw, keys.combined)
		if ip == "" {
			ip = cIP
		}
		if port == "" {
			port = cPort
		}
	}

	return model.OrNA(ip), model.OrNA(port)
}

func combinedEndpoint(raw map[string]interface{}, paths []KeyPath) (string, string) {
	if s, ok := lookup(raw, paths); ok {
		return splitEndpoint(s)
	}
	if obj, ok := lookupObject(raw, paths); ok {
		ip, _ := lookup(obj, nestedIPPaths)
		port, _ := lookup(obj, nestedPortPaths)
		if ip != "" && port == "" {
			ip, port = splitEndpoint(ip)
		}
		return ip, port
	}
	return "", ""
}
