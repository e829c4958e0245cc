package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeConfig(t, "publishers.yaml", `
publishers:
  - id: webhook
    type: HTTP
    http:
      url: " https://hooks.example.com/jobs "
      headers:
        Authorization: "Bearer x"
        Empty: ""
  - id: queue
    type: sqs
    enabled: false
    sqs:
      uri: https://sqs.eu-west-1.amazonaws.com/000000000000/jobs
      region: eu-west-1
      endpoint: http://localhost:4566
  - id: topic
    type: pubsub
    pubsub:
      project_id: visajobs
      topic: listings
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := len(reg.All()); got != 3 {
		t.Fatalf("expected 3 publishers, got %d", got)
	}

	hook, ok := reg.ByID("webhook")
	if !ok {
		t.Fatalf("webhook missing")
	}
	if hook.Type != TypeHTTP || hook.HTTP.URL != "https://hooks.example.com/jobs" || hook.HTTP.Method != "POST" {
		t.Fatalf("unexpected sanitized http config %#v", hook.HTTP)
	}
	if hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds || len(hook.HTTP.Headers) != 1 {
		t.Fatalf("unexpected defaults %#v", hook.HTTP)
	}

	queue, _ := reg.ByID("queue")
	if queue.SQS.Endpoint != "http://localhost:4566" || queue.SQS.Region != "eu-west-1" {
		t.Fatalf("inline aws config not decoded: %#v", queue.SQS)
	}

	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "webhook" || enabled[1].ID != "topic" {
		t.Fatalf("unexpected enabled set %#v", enabled)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeConfig(t, "publishers.json", `{"publishers":[{"id":"sns","type":"sns","sns":{"topic_arn":"arn:aws:sns:us-east-1:1:jobs","region":"us-east-1"}}]}`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("sns")
	if !ok || cfg.SNS.TopicARN != "arn:aws:sns:us-east-1:1:jobs" {
		t.Fatalf("unexpected sns config %#v", cfg)
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	cases := map[string]string{
		"no-type.yaml":   "publishers:\n  - id: a\n",
		"bad-type.yaml":  "publishers:\n  - id: a\n    type: kafka\n",
		"no-url.yaml":    "publishers:\n  - id: a\n    type: http\n    http: {}\n",
		"no-region.yaml": "publishers:\n  - id: a\n    type: sqs\n    sqs:\n      uri: q\n",
		"no-topic.yaml":  "publishers:\n  - id: a\n    type: pubsub\n    pubsub:\n      project_id: p\n",
		"duplicate.yaml": "publishers:\n  - id: a\n    type: http\n    http: {url: x}\n  - id: a\n    type: http\n    http: {url: y}\n",
		"empty.yaml":     "publishers: []\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadRegistry(writeConfig(t, name, content)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
	if _, err := LoadRegistry(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
