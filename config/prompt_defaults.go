package config

// PromptDefault is the static, compiled-in configuration for one generation
// task. These are the single source of truth: they seed the prompt_configs
// table at startup and serve as the runtime fallback whenever the database
// copy is missing or unreachable.
type PromptDefault struct {
	DisplayName string
	Description string
	Template    string
	Model       string
	Temperature float64
	MaxTokens   int
	Variables   []string
}

// ValidModels are the Claude model identifiers accepted by prompt
// configuration updates.
var ValidModels = []string{
	"claude-3-haiku-20240307",
	"claude-3-5-sonnet-20241022",
	"claude-3-opus-latest",
}

const DefaultModel = "claude-3-haiku-20240307"

// Prompt keys. Always lower-cased for lookup.
const (
	PromptValidateAnswer    = "validateanswer"
	PromptFeedbackCorrect   = "generatefeedback-correct"
	PromptFeedbackIncorrect = "generatefeedback-incorrect"
	PromptSteps             = "generatesteps"
	PromptSolution          = "generatesolution"
	PromptDynamicHint       = "generatedynamichint"
	PromptDetailedSolution  = "generatedetailedsolution"
	PromptSimilarProblems   = "generatesimilarproblems"
)

var DefaultPromptConfigs = map[string]PromptDefault{
	PromptValidateAnswer: {
		DisplayName: "Answer Validation",
		Description: "Checks a student answer for mathematical equivalence with the correct answer.",
		Template: `You are a math teacher evaluating a student's answer.

Problem: ${problemText}
Correct Answer: ${correctAnswer}
Student's Answer: ${studentAnswer}

Determine if the student's answer is mathematically correct. Consider:
- Mathematical equivalence (e.g., "5" and "x = 5" are equivalent for solving for x)
- Different notations (e.g., "6x" vs "6*x" vs "x*6")
- Simplified vs unsimplified forms if they're equivalent
- Minor spacing or formatting differences

Respond with ONLY a JSON object in this exact format:
{
  "isCorrect": true or false,
  "reasoning": "Brief explanation of why the answer is correct or incorrect"
}`,
		Model:       DefaultModel,
		Temperature: 0,
		MaxTokens:   200,
		Variables:   []string{"problemText", "correctAnswer", "studentAnswer"},
	},
	PromptFeedbackCorrect: {
		DisplayName: "Feedback (Correct Answer)",
		Description: "Short encouragement after a correct answer.",
		Template: `You are an encouraging math teacher. A student correctly solved this problem:

Problem: ${problemText}
Student's Answer: ${studentAnswer}

Generate a brief, encouraging response (1-2 sentences) that:
- Congratulates them
- Is warm and motivating
- Encourages them to continue

Be specific and genuine. Don't use emojis.`,
		Model:       DefaultModel,
		Temperature: 0.7,
		MaxTokens:   150,
		Variables:   []string{"problemText", "studentAnswer"},
	},
	PromptFeedbackIncorrect: {
		DisplayName: "Feedback (Incorrect Answer)",
		Description: "Supportive pointer after a wrong answer, without revealing the solution.",
		Template: `You are a helpful math teacher. A student attempted this problem (attempt #${attemptNumber}):

Problem: ${problemText}
Student's Answer: ${studentAnswer}

Generate a brief, helpful response (1-2 sentences) that:
- Acknowledges their effort
- Points out what might be going wrong WITHOUT giving the answer
- Encourages them to try again
- Is supportive and patient

Be specific to their answer. Don't use emojis. Don't give the solution.`,
		Model:       DefaultModel,
		Temperature: 0.7,
		MaxTokens:   150,
		Variables:   []string{"problemText", "studentAnswer", "attemptNumber"},
	},
	PromptSteps: {
		DisplayName: "Generic Steps",
		Description: "Generic numbered hints for a problem, independent of the student's answer.",
		Template: `You are a helpful math tutor. Generate 3-4 helpful hints to guide a student through solving this problem WITHOUT giving away the final answer.

Problem: ${problemText}
Difficulty: ${difficulty}

Provide hints as a numbered list that:
- Guide the student through the problem-solving process
- Start with the first step needed
- Build progressively toward the solution
- DO NOT include the final answer
- Are clear and concise

Format your response as a numbered list.`,
		Model:       DefaultModel,
		Temperature: 0.7,
		MaxTokens:   300,
		Variables:   []string{"problemText", "difficulty"},
	},
	PromptSolution: {
		DisplayName: "Worked Solution",
		Description: "Complete worked solution for a problem.",
		Template: `You are a math teacher providing a complete worked solution. Show the student exactly how to solve this problem step-by-step.

Problem: ${problemText}
Correct Answer: ${correctAnswer}
Difficulty: ${difficulty}

Provide a clear, step-by-step solution that:
- Shows each step of the solving process
- Explains WHY each step is taken
- Clearly shows the final answer
- Is easy to follow and understand

Format with clear steps and explanations.`,
		Model:       DefaultModel,
		Temperature: 0.7,
		MaxTokens:   400,
		Variables:   []string{"problemText", "correctAnswer", "difficulty"},
	},
	PromptDynamicHint: {
		DisplayName: "Dynamic Hint",
		Description: "Targeted hints derived from the student's specific wrong answer.",
		Template: `You are a math tutor analyzing a student's mistake.

Problem: ${problemText}
Correct Answer: ${correctAnswer}
Student's Incorrect Answer: ${studentAnswer}
Attempt Number: ${attemptNumber}
Difficulty: ${difficulty}

The student made an error. Analyze their specific mistake and provide 3-4 targeted, descriptive hints that:
- Identify what they likely did wrong (without stating it directly)
- Guide them to reconsider the specific steps where they went wrong
- Are encouraging and constructive
- Help them discover the correct approach on their own
- Are MORE DETAILED and SPECIFIC than generic hints
- DO NOT give away the final answer

Format as a numbered list with detailed, specific guidance.`,
		Model:       DefaultModel,
		Temperature: 0.7,
		MaxTokens:   400,
		Variables:   []string{"problemText", "correctAnswer", "studentAnswer", "attemptNumber", "difficulty"},
	},
	PromptDetailedSolution: {
		DisplayName: "Detailed Solution",
		Description: "Worked solution with every equation transformation written out explicitly.",
		Template: `You are a math teacher providing a VERY DETAILED worked solution with EXPLICIT equations at every step.

Problem: ${problemText}
Correct Answer: ${correctAnswer}
Difficulty: ${difficulty}

Provide a step-by-step solution that shows EVERY operation explicitly.

Requirements:
- Show EACH equation transformation on its own line
- Show the arithmetic: "20 - 5 = 15" not just "3x = 15"
- Explain WHY each operation is performed
- Use clear step numbers
- Show all intermediate calculations
- Make it extremely detailed and easy to follow

Format with clear steps, equations, and explanations.`,
		Model:       DefaultModel,
		Temperature: 0.5,
		MaxTokens:   500,
		Variables:   []string{"problemText", "correctAnswer", "difficulty"},
	},
	PromptSimilarProblems: {
		DisplayName: "Similar Problem Generation",
		Description: "Generates a batch of new problems modeled on an existing one.",
		Template: `You are a math problem generator. Generate ${count} unique math problems similar to this example:

Title: ${title}
Category: ${category}
Subcategory: ${subcategory}
Difficulty: ${difficulty}
Problem: ${problemText}
Answer: ${correctAnswer}
Answer Format: ${answerFormat}

Requirements:
- Generate EXACTLY ${count} UNIQUE problems at the same difficulty level and concept
- Each must be solvable and have a clear, unambiguous correct answer
- Vary the numbers and context while keeping the mathematical concept the same
- For equations, vary the coefficients and constants
- Ensure each problem tests the same skill as the example
- Make sure answers are diverse (different values)

Return ONLY a valid JSON array (no markdown, no extra text) where each element has this exact structure:
{"title": "...", "problemText": "...", "correctAnswer": "...", "alternateAnswers": ["..."]}`,
		Model:       "claude-3-5-sonnet-20241022",
		Temperature: 0.9,
		MaxTokens:   4000,
		Variables:   []string{"count", "title", "category", "subcategory", "difficulty", "problemText", "correctAnswer", "answerFormat"},
	},
}

// IsValidModel reports whether name is an accepted model identifier.
func IsValidModel(name string) bool {
	for _, m := range ValidModels {
		if m == name {
			return true
		}
	}
	return false
}
