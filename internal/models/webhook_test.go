package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookEventDecodesQuotedAmount(t *testing.T) {
	body := `{
		"event": "call_analyzed",
		"call": {
			"call_id": "c1",
			"call_analysis": {"custom_analysis_data": {"role": "Backend Engineer", "level": "junior", "type": "technical", "techstack": "Go,Postgres", "amount": "3"}},
			"metadata": {"userId": "u1", "type": "generate"}
		}
	}`

	var ev WebhookEvent
	require.NoError(t, json.Unmarshal([]byte(body), &ev))
	require.NotNil(t, ev.Call)
	require.NotNil(t, ev.Call.CallAnalysis)
	require.NotNil(t, ev.Call.CallAnalysis.CustomAnalysisData)

	data := ev.Call.CallAnalysis.CustomAnalysisData
	assert.Equal(t, "Backend Engineer", data.Role)
	assert.Equal(t, FlexInt(3), data.Amount)
	assert.Equal(t, CallTypeGenerate, ev.Call.Metadata.Type)
}

func TestFlexIntVariants(t *testing.T) {
	cases := map[string]FlexInt{
		`5`:      5,
		`"7"`:    7,
		`" 9 "`:  9,
		`null`:   0,
		`"lots"`: 0,
		`""`:     0,
	}
	for in, want := range cases {
		var f FlexInt
		require.NoError(t, json.Unmarshal([]byte(in), &f), in)
		assert.Equal(t, want, f, in)
	}
}

func TestGenerateRequestAliases(t *testing.T) {
	var req GenerateRequest
	body := `{"jobRole":"Data Engineer","experienceLevel":"senior","interviewType":"technical","techStack":["Python","Spark"],"numberOfQuestions":4,"userId":"u9"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	role, level, qtype, stack, amount, userID := req.Normalized()
	assert.Equal(t, "Data Engineer", role)
	assert.Equal(t, "senior", level)
	assert.Equal(t, "technical", qtype)
	assert.Equal(t, []string{"Python", "Spark"}, stack)
	assert.Equal(t, 4, amount)
	assert.Equal(t, "u9", userID)
}

func TestGenerateRequestDefaults(t *testing.T) {
	var req GenerateRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))

	role, level, qtype, stack, amount, userID := req.Normalized()
	assert.Equal(t, "Developer", role)
	assert.Equal(t, "Junior", level)
	assert.Equal(t, "Mixed", qtype)
	assert.Equal(t, []string{"JavaScript"}, stack)
	assert.Equal(t, 5, amount)
	assert.Empty(t, userID)
}

func TestGenerateRequestCommaJoinedStack(t *testing.T) {
	var req GenerateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"techstack":"Go, Redis"}`), &req))
	_, _, _, stack, _, _ := req.Normalized()
	assert.Equal(t, []string{"Go", "Redis"}, stack)
}
