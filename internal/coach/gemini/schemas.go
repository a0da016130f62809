package gemini

import "google.golang.org/genai"

// Response schemas handed to the model with every call. Property names
// must stay in lockstep with the JSON tags of the types in the coach and
// weeks packages, the parsers decode straight into them. IDs are absent
// on purpose, they are injected server side.

var rangeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"min": {Type: genai.TypeNumber},
		"max": {Type: genai.TypeNumber},
	},
	Required: []string{"min", "max"},
}

var suggestionListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":                    {Type: genai.TypeString},
			"numberOfSets":            {Type: genai.TypeInteger},
			"prescribedAmount":        rangeSchema,
			"prescribedAmountUnit":    {Type: genai.TypeString},
			"prescribedIntensity":     rangeSchema,
			"prescribedIntensityUnit": {Type: genai.TypeString},
		},
		Required: []string{
			"name",
			"numberOfSets",
			"prescribedAmount",
			"prescribedAmountUnit",
			"prescribedIntensity",
			"prescribedIntensityUnit",
		},
	},
}

var titleHeadlineSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":    {Type: genai.TypeString},
		"headline": {Type: genai.TypeString},
	},
	Required: []string{"title", "headline"},
}

var setSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"exercise":            {Type: genai.TypeString},
		"prescribedAmount":    rangeSchema,
		"actualAmount":        {Type: genai.TypeNumber},
		"amountUnit":          {Type: genai.TypeString},
		"prescribedIntensity": rangeSchema,
		"actualIntensity":     {Type: genai.TypeNumber},
		"intensityUnit":       {Type: genai.TypeString},
	},
	Required: []string{
		"exercise",
		"prescribedAmount",
		"actualAmount",
		"amountUnit",
		"prescribedIntensity",
		"actualIntensity",
		"intensityUnit",
	},
}

var weekListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":    {Type: genai.TypeString},
			"headline": {Type: genai.TypeString},
			"date":     {Type: genai.TypeString, Format: "date-time"},
			"sets": {
				Type:  genai.TypeArray,
				Items: setSchema,
			},
		},
		Required: []string{"title", "sets"},
	},
}

var dataPointListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"date":                {Type: genai.TypeString, Format: "date-time"},
			"percentEstimate":     {Type: genai.TypeNumber},
			"semanticDescription": {Type: genai.TypeString},
		},
		Required: []string{"date", "percentEstimate"},
	},
}
