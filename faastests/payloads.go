package faastests

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// The canned request body for each known function. Several functions exist in
// both an AI-assisted and a "noai-" variant with identical contracts, so both
// spellings appear. Functions not listed here fall back to a family payload or
// the generic default.
var payloadRegistry = map[string]ldvalue.Value{
	"text-summarizer": payload(`{
		"text": "Artificial intelligence is transforming the technology landscape. Machine learning algorithms can now process vast amounts of data. Deep learning has revolutionized computer vision and natural language processing. Companies are investing heavily in AI research and development. The future of AI looks promising with many exciting applications ahead.",
		"num_sentences": 2,
		"method": "tfidf"
	}`),
	"anomaly-detector": payload(`{
		"data": [[1.2, 3.4], [2.1, 3.5], [1.8, 3.3], [2.0, 3.6], [100, 200]],
		"train": true,
		"contamination": 0.1
	}`),
	"sentiment-analyzer": payload(`{
		"text": "This product is amazing! I love it."
	}`),
	"naivebayes-classifier": payload(`{
		"operation": "train",
		"texts": ["This is a positive review", "Great product, highly recommended",
			"Terrible experience, waste of money", "Not satisfied with the quality",
			"Amazing service and fast delivery"],
		"labels": ["positive", "positive", "negative", "negative", "positive"],
		"model_id": "sentiment_model",
		"vectorizer_type": "tfidf"
	}`),
	"linear-regression": payload(`{
		"operation": "train",
		"X": [[1], [2], [3], [4], [5]],
		"y": [2, 4, 6, 8, 10],
		"model_id": "price_model",
		"model_type": "linear"
	}`),
	"topic-modeling": payload(`{
		"operation": "train",
		"documents": [
			"Machine learning is a subset of artificial intelligence",
			"Deep learning uses neural networks with multiple layers",
			"Python is a popular programming language for data science",
			"Natural language processing helps computers understand text",
			"Computer vision enables machines to interpret images"
		],
		"n_topics": 2,
		"model_id": "tech_topics",
		"method": "lda"
	}`),
	"pcadimensionality-reduction": payload(`{
		"operation": "fit",
		"X": [[2.5, 2.4], [0.5, 0.7], [2.2, 2.9], [1.9, 2.2], [3.1, 3.0], [2.3, 2.7]],
		"n_components": 1,
		"model_id": "feature_reducer"
	}`),
}

// utilityPayloads map one payload to both spellings of a utility function.
var utilityPayloads = []struct {
	names   []string
	payload ldvalue.Value
}{
	{
		names: []string{"noai-image-generator", "image-processor"},
		payload: payload(`{
			"image": "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg==",
			"operations": [
				{"type": "resize", "width": 800, "height": 600},
				{"type": "filter", "name": "sharpen"},
				{"type": "brightness", "factor": 1.2}
			],
			"output_format": "PNG"
		}`),
	},
	{
		names: []string{"noai-data-validator", "data-validator"},
		payload: payload(`{
			"data": {
				"email": "test@example.com",
				"age": 25,
				"phone": "1234567890",
				"website": "https://example.com"
			},
			"schema": {
				"email": {"required": true, "type": "string", "format": "email"},
				"age": {"required": true, "type": "integer", "min": 0, "max": 150},
				"phone": {"required": false, "type": "string", "format": "phone"},
				"website": {"required": false, "type": "string", "format": "url"}
			}
		}`),
	},
	{
		names: []string{"noai-hash-generator", "hash-generator"},
		payload: payload(`{
			"operation": "hash",
			"data": "Hello, World!",
			"algorithm": "sha256"
		}`),
	},
	{
		names: []string{"noai-qrcode-generator", "qr-code-generator"},
		payload: payload(`{
			"data": "https://example.com",
			"error_correction": "H",
			"box_size": 10,
			"border": 4,
			"fill_color": "black",
			"back_color": "white"
		}`),
	},
	{
		names: []string{"noai-jsonxml-converter", "json-xml-converter"},
		payload: payload(`{
			"operation": "json_to_xml",
			"data": {
				"person": {
					"name": "John Doe",
					"age": 30,
					"hobbies": ["reading", "coding", "gaming"]
				}
			},
			"root_name": "data"
		}`),
	},
	{
		names: []string{"noai-email-parser", "email-parser"},
		payload: payload(`{
			"operation": "analyze",
			"email": "user+tag@gmail.com"
		}`),
	},
	{
		names: []string{"noai-data-encrypter", "data-encryption"},
		payload: payload(`{
			"operation": "generate_key",
			"key_id": "my_key"
		}`),
	},
	{
		names: []string{"noai-csv-processor", "csv-processor"},
		payload: payload(`{
			"operation": "parse",
			"data": "name,age,city\nJohn,30,New York\nJane,25,Los Angeles\nBob,35,Chicago",
			"has_header": true,
			"delimiter": ","
		}`),
	},
	{
		names: []string{"noai-url-shortner", "url-shortener"},
		payload: payload(`{
			"operation": "shorten",
			"url": "https://example.com/very/long/url/path/to/resource",
			"custom_code": "mylink"
		}`),
	},
	{
		names: []string{"noai-pdf-generator", "pdf-generator"},
		payload: payload(`{
			"type": "simple",
			"title": "My Document",
			"content": [
				"This is the first paragraph.",
				"This is the second paragraph.",
				"And this is the third paragraph."
			],
			"page_size": "letter"
		}`),
	},
}

// payloadFamilies cover the classifier functions that ship in several
// compromised-behavior variants; every variant of a family takes the same
// request.
var payloadFamilies = []struct {
	members []string
	payload ldvalue.Value
}{
	{
		members: []string{
			"kmeans-clustering", "kmeans-clustering-code-type",
			"kmeans-clustering-command-type", "kmeans-clustering-fileop-type",
			"kmeans-clustering-info-type",
		},
		payload: payload(`{
			"data": [[1, 2], [1.5, 1.8], [5, 8], [8, 8], [1, 0.6]],
			"n_clusters": 2,
			"operation": "fit_predict",
			"normalize": true,
			"model_id": "customer_segments"
		}`),
	},
	{
		members: []string{
			"decisiontree-classifier", "decisiontree-classifier-code-type",
			"decisiontree-classifier-command-type", "decisiontree-classifier-fileop-type",
			"decisiontree-classifier-info-type",
		},
		payload: payload(`{
			"operation": "train",
			"X": [[5.1, 3.5, 1.4, 0.2], [4.9, 3.0, 1.4, 0.2], [7.0, 3.2, 4.7, 1.4],
				[6.4, 3.2, 4.5, 1.5], [6.3, 3.3, 6.0, 2.5], [5.8, 2.7, 5.1, 1.9]],
			"y": ["setosa", "setosa", "versicolor", "versicolor", "virginica", "virginica"],
			"model_id": "iris_model",
			"max_depth": 3
		}`),
	},
	{
		members: []string{
			"time-series-forecaster", "time-series-forecaster-code-type",
			"time-series-forecaster-command-type", "time-series-forecaster-fileop-type",
			"time-series-forecaster-info-type",
		},
		payload: payload(`{
			"series": [10, 12, 15, 14, 18, 21, 23, 25],
			"forecast_steps": 5,
			"degree": 1
		}`),
	},
}

var defaultPayload = payload(`{"test": true}`)

func payload(js string) ldvalue.Value {
	return ldvalue.Parse([]byte(js))
}

// PayloadFor returns the canned request body used to exercise the named
// function. Resolution is deterministic: exact registry match, then utility
// pair, then variant family, then the generic default. The same name always
// yields the same value.
func PayloadFor(name string) ldvalue.Value {
	if v, ok := payloadRegistry[name]; ok {
		return v
	}
	for _, u := range utilityPayloads {
		for _, n := range u.names {
			if n == name {
				return u.payload
			}
		}
	}
	for _, f := range payloadFamilies {
		for _, member := range f.members {
			if member == name {
				return f.payload
			}
		}
	}
	return defaultPayload
}
