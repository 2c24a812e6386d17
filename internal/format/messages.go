package format

import (
	"fmt"

	"github.com/dukaan-ai/salesbot/internal/domain"
)

// Localized message catalog. English is the fallback for unknown locales
// and missing keys.
var messages = map[domain.Locale]map[string]string{
	domain.LocaleEnglish: {
		"welcome": `🤖 *Sales Analytics Bot*

Choose your preferred language / अपनी पसंदीदा भाषा चुनें:

1️⃣ *English* - Continue in English
2️⃣ *हिंदी* - हिंदी में जारी रखें

Reply with 1 or 2 to select language.`,
		"help": `🤖 *Sales Analytics Bot*

Ask me questions about your sales data! Here are some examples:

• "Which item sold the most last week?"
• "What is the total profit for this month?"
• "Which items will expire in the next 3 days?"

Type 'help' anytime for this message.
Type 'language' to change language.`,
		"language_changed": "✅ Language changed to English!",
		"examples_header":  "📋 *Sample Questions:*",
		"results_header":   "Results:",
		"summary":          "Found %d rows. Showing the first %d:",
		"no_results":       "No data found for this query.",
		"error":            "I encountered an error while processing your query: %s. Please try again with a different question.",
	},
	domain.LocaleHindi: {
		"welcome": `🤖 *Sales Analytics Bot*

अपनी पसंदीदा भाषा चुनें / Choose your preferred language:

1️⃣ *English* - Continue in English
2️⃣ *हिंदी* - हिंदी में जारी रखें

भाषा चुनने के लिए 1 या 2 का जवाब दें।`,
		"help": `🤖 *Sales Analytics Bot*

अपने बिक्री डेटा के बारे में सवाल पूछें! यहाँ कुछ उदाहरण हैं:

• "पिछले हफ्ते सबसे ज्यादा क्या बिका?"
• "इस महीने का कुल मुनाफा कितना है?"
• "अगले 3 दिनों में कौन सी चीजें एक्सपायर हो रही हैं?"

किसी भी समय 'help' टाइप करें।
भाषा बदलने के लिए 'language' टाइप करें।`,
		"language_changed": "✅ भाषा हिंदी में बदल दी गई!",
		"examples_header":  "📋 *उदाहरण सवाल:*",
		"results_header":   "परिणाम:",
		"summary":          "कुल %d पंक्तियाँ मिलीं। पहली %d दिखाई जा रही हैं:",
		"no_results":       "इस सवाल के लिए कोई डेटा नहीं मिला।",
		"error":            "आपके सवाल को प्रोसेस करते समय एक त्रुटि आई: %s। कृपया अलग सवाल के साथ फिर से कोशिश करें।",
	},
}

var sampleQuestions = map[domain.Locale][]string{
	domain.LocaleEnglish: {
		"Which item sold the most last week?",
		"What is the total profit for this month?",
		"Which items will expire in the next 3 days?",
		"What are the top 5 selling items?",
		"How much profit did we make from milk sales?",
		"Show me sales data for the last 7 days",
		"Which items have the highest profit margin?",
		"What items are expiring soon?",
	},
	domain.LocaleHindi: {
		"पिछले हफ्ते सबसे ज्यादा क्या बिका?",
		"इस महीने का कुल मुनाफा कितना है?",
		"अगले 3 दिनों में कौन सी चीजें एक्सपायर हो रही हैं?",
		"टॉप 5 बिकने वाली चीजें कौन सी हैं?",
		"दूध की बिक्री से कितना मुनाफा हुआ?",
		"पिछले 7 दिनों का बिक्री डेटा दिखाएं",
		"कौन सी चीजों का प्रॉफिट मार्जिन सबसे ज्यादा है?",
		"कौन सी चीजें जल्द एक्सपायर हो रही हैं?",
	},
}

// Message returns the localized text for key.
func Message(key string, loc domain.Locale) string {
	if m, ok := messages[loc]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return messages[domain.LocaleEnglish][key]
}

// Apology renders the localized failure reply, including the error
// description for diagnostic transparency.
func Apology(loc domain.Locale, desc string) string {
	return fmt.Sprintf(Message("error", loc), desc)
}

// SampleQuestions returns the example questions for a locale.
func SampleQuestions(loc domain.Locale) []string {
	if qs, ok := sampleQuestions[loc]; ok {
		return qs
	}
	return sampleQuestions[domain.LocaleEnglish]
}
