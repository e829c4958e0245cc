package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func TestSQSPublisherSendsEvent(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "queue", queueURL: "https://example.com/queue", client: client, log: noopLogger{}}

	evt := sampleEvent()
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["country"]
	if !ok || aws.ToString(attr.StringValue) != "UK" || aws.ToString(attr.DataType) != "String" {
		t.Fatalf("country attribute missing or wrong: %#v", attr)
	}

	var decoded Event
	if err := json.Unmarshal([]byte(aws.ToString(client.input.MessageBody)), &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.JobKey != evt.JobKey || decoded.Job.Title != evt.Job.Title {
		t.Fatalf("unexpected body %#v", decoded)
	}
}

func TestSQSPublisherSkipsEmptyAttributes(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "queue", queueURL: "q", client: client, log: noopLogger{}}

	evt := sampleEvent()
	evt.Job.Source = ""
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, ok := client.input.MessageAttributes["source"]; ok {
		t.Fatalf("empty source attribute should be omitted")
	}
}

func TestSQSPublisherError(t *testing.T) {
	pub := &sqsPublisher{id: "queue", queueURL: "q", client: &fakeSQSClient{err: errors.New("boom")}, log: noopLogger{}}
	if err := pub.Publish(context.Background(), sampleEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSNSPublisherSendsEvent(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{id: "topic", topicARN: "arn:aws:sns:eu-west-1:000000000000:jobs", client: client, log: noopLogger{}}

	if err := pub.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:eu-west-1:000000000000:jobs" {
		t.Fatalf("TopicArn = %s", got)
	}
	if got := aws.ToString(client.input.Subject); got != "New job: Content Marketing Manager (UK)" {
		t.Fatalf("Subject = %q", got)
	}
	if attr := client.input.MessageAttributes["event_type"]; aws.ToString(attr.StringValue) != EventTypeJobListed {
		t.Fatalf("event_type attribute = %#v", attr)
	}
}

func TestSNSPublisherError(t *testing.T) {
	pub := &snsPublisher{id: "topic", topicARN: "arn", client: &fakeSNSClient{err: errors.New("denied")}, log: noopLogger{}}
	if err := pub.Publish(context.Background(), sampleEvent()); err == nil {
		t.Fatalf("expected error from Publish")
	}
}

func TestSubjectIsTruncated(t *testing.T) {
	evt := sampleEvent()
	evt.Job.Title = strings.Repeat("é", 200)
	if got := len([]rune(subject(evt))); got != 99 {
		t.Fatalf("subject length = %d, want 99", got)
	}

	evt.Job.Title = "Community Manager"
	if got := subject(evt); got != "New job: Community Manager (UK)" {
		t.Fatalf("short subject altered: %q", got)
	}
}

func TestAWSBuildersUseStaticCredentials(t *testing.T) {
	ctx := context.Background()
	awsCfg := AWSConfig{Region: "eu-west-1", Endpoint: "http://localhost:4566", AccessKeyID: "test", SecretAccessKey: "test"}

	pub, err := newSQSPublisher(ctx, PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "http://localhost:4566/000000000000/jobs", AWSConfig: awsCfg}}, nil)
	if err != nil {
		t.Fatalf("newSQSPublisher: %v", err)
	}
	if pub.Type() != TypeSQS || pub.ID() != "q" {
		t.Fatalf("unexpected publisher %s/%s", pub.Type(), pub.ID())
	}

	pub, err = newSNSPublisher(ctx, PublisherConfig{ID: "t", Type: TypeSNS, SNS: &SNSPublisherConfig{TopicARN: "arn", AWSConfig: awsCfg}}, nil)
	if err != nil {
		t.Fatalf("newSNSPublisher: %v", err)
	}
	if pub.Type() != TypeSNS {
		t.Fatalf("unexpected type %s", pub.Type())
	}

	if _, err := newSQSPublisher(ctx, PublisherConfig{ID: "bad", Type: TypeSQS}, nil); err == nil {
		t.Fatalf("expected error when sqs block is missing")
	}
}
