package opuslambda

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lessico/internal/config"
	"github.com/heartmarshall/lessico/internal/domain"
)

type invokerMock struct {
	InvokeFunc func(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
	calls      int
}

func (m *invokerMock) Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	m.calls++
	return m.InvokeFunc(ctx, params, optFns...)
}

func newTestProvider(client Invoker) *Provider {
	return NewWithClient(client, config.TranslateConfig{
		SourceLang: "en",
		TargetLang: "ru",
		Lambda:     config.LambdaConfig{FunctionName: "opus-mt-en-ru"},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProvider_Translate_Success(t *testing.T) {
	t.Parallel()

	mock := &invokerMock{
		InvokeFunc: func(_ context.Context, in *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
			assert.Equal(t, "opus-mt-en-ru", aws.ToString(in.FunctionName))

			var req translatorRequest
			require.NoError(t, json.Unmarshal(in.Payload, &req))
			assert.Equal(t, [][]string{{"a small domestic feline"}}, req.Chunks)
			assert.Equal(t, "ru", req.TargetLang)

			return &lambda.InvokeOutput{Payload: []byte(`{"translations":[["небольшое домашнее животное из семейства кошачьих"]]}`)}, nil
		},
	}

	got, err := newTestProvider(mock).Translate(context.Background(), "a small domestic feline", "en", "ru")
	require.NoError(t, err)
	assert.Equal(t, "небольшое домашнее животное из семейства кошачьих", got)
}

func TestProvider_Translate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		out        *lambda.InvokeOutput
		invokeErr  error
		wantErrIs  error
		wantSubstr string
	}{
		{name: "invoke error", invokeErr: errors.New("throttled"), wantSubstr: "throttled"},
		{name: "function error", out: &lambda.InvokeOutput{FunctionError: aws.String("Unhandled")}, wantSubstr: "Unhandled"},
		{name: "translator error", out: &lambda.InvokeOutput{Payload: []byte(`{"error":"model not loaded"}`)}, wantSubstr: "model not loaded"},
		{name: "bad payload", out: &lambda.InvokeOutput{Payload: []byte(`nope`)}, wantSubstr: "parse response"},
		{name: "empty translations", out: &lambda.InvokeOutput{Payload: []byte(`{"translations":[]}`)}, wantErrIs: domain.ErrTranslationUnavailable},
		{name: "blank translation", out: &lambda.InvokeOutput{Payload: []byte(`{"translations":[["  "]]}`)}, wantErrIs: domain.ErrTranslationUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := &invokerMock{
				InvokeFunc: func(context.Context, *lambda.InvokeInput, ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
					return tt.out, tt.invokeErr
				},
			}

			_, err := newTestProvider(mock).Translate(context.Background(), "cat", "en", "ru")
			require.Error(t, err)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			}
			if tt.wantSubstr != "" {
				assert.Contains(t, err.Error(), tt.wantSubstr)
			}
		})
	}
}

func TestProvider_Translate_WrongPair(t *testing.T) {
	t.Parallel()

	mock := &invokerMock{
		InvokeFunc: func(context.Context, *lambda.InvokeInput, ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
			return nil, errors.New("unexpected call")
		},
	}

	_, err := newTestProvider(mock).Translate(context.Background(), "cat", "it", "ru")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTranslationUnavailable)
	assert.Zero(t, mock.calls)
}
