// Package canned answers common questions from a fixed keyword table.
package canned

import "strings"

// MatchKind says how a pattern is compared with the normalized input.
type MatchKind int

const (
	Exact MatchKind = iota
	Prefix
	Contains
)

// Pattern is one way a rule can match.
type Pattern struct {
	Kind MatchKind
	Text string
}

func (p Pattern) matches(msg string) bool {
	switch p.Kind {
	case Exact:
		return msg == p.Text
	case Prefix:
		return strings.HasPrefix(msg, p.Text)
	case Contains:
		return strings.Contains(msg, p.Text)
	}
	return false
}

// Rule maps a set of patterns to a reply. Any matching pattern selects it.
type Rule struct {
	Name     string
	Patterns []Pattern
	Reply    string
}

// Table is an ordered rule list. The first matching rule wins.
type Table struct {
	Rules    []Rule
	Fallback string
	// Empty is returned for blank input.
	Empty string
}

// Match returns the reply for input and the name of the rule that produced
// it ("fallback" or "empty" otherwise).
func (t *Table) Match(input string) (reply, rule string) {
	msg := strings.ToLower(strings.TrimSpace(input))
	if msg == "" {
		return t.Empty, "empty"
	}
	for _, r := range t.Rules {
		for _, p := range r.Patterns {
			if p.matches(msg) {
				return r.Reply, r.Name
			}
		}
	}
	return t.Fallback, "fallback"
}

// Reply returns the reply text for input.
func (t *Table) Reply(input string) string {
	reply, _ := t.Match(input)
	return reply
}

func word(w string) []Pattern {
	return []Pattern{{Exact, w}, {Prefix, w + " "}}
}

func contains(phrases ...string) []Pattern {
	out := make([]Pattern, len(phrases))
	for i, p := range phrases {
		out[i] = Pattern{Contains, p}
	}
	return out
}

// Default is the built-in table. More specific questions come before the
// shorter ones they contain.
var Default = &Table{
	Empty: "I didn’t catch that. Could you please repeat your question?",
	Rules: []Rule{
		{
			Name:     "greeting.en",
			Patterns: append(word("hello"), word("hi")...),
			Reply: "Hello! 👋 How can I help you today?\n" +
				"You can ask me about Dennis, Denarixx, his projects, or general questions about creativity and AI.",
		},
		{
			Name:     "greeting.es",
			Patterns: word("hola"),
			Reply: "¡Hola! 👋 ¿Cómo puedo ayudarte hoy?\n" +
				"Puedes preguntarme sobre Dennis, sus proyectos, Denarixx o temas generales de creatividad e inteligencia artificial.",
		},
		{
			Name:     "greeting.de",
			Patterns: word("hallo"),
			Reply: "Hallo! 👋 Wie kann ich dir heute helfen?\n" +
				"Du kannst mir Fragen zu Dennis Charles, seinen Projekten, Denarixx oder zu kreativen Themen mit KI stellen.",
		},
		{
			Name:     "greeting.ar",
			Patterns: contains("صباح الخير"),
			Reply: "صباح النور! 🌞 كيف يمكنني مساعدتك اليوم؟\n" +
				"يمكنك طرح أسئلة حول دينيس تشارلز، مشروع Denarixx، أو مواضيع عامة عن الإبداع والذكاء الاصطناعي.",
		},
		{
			Name:     "greeting.es.morning",
			Patterns: contains("buenos dias", "buenos días"),
			Reply: "¡Buenos días! 🌞 ¿En qué puedo ayudarte hoy?\n" +
				"Si quieres saber más sobre Dennis, Denarixx o sus proyectos creativos con IA, pregúntame lo que quieras.",
		},
		{
			Name:     "greeting.fr",
			Patterns: []Pattern{{Prefix, "bonjour"}},
			Reply: "Bonjour ! 👋 Comment puis-je t’aider aujourd’hui ?\n" +
				"Tu peux me poser des questions sur Dennis, Denarixx, ses projets ou des sujets liés à la créativité et à l’IA.",
		},
		{
			Name:     "about.de.full",
			Patterns: contains("wer ist dennis charles"),
			Reply: "Dennis Charles, auch bekannt als „Denarixx“, ist ein AI-Engineer und kreativer Digital Creator mit Sitz in Deutschland.\n" +
				"Er arbeitet an Projekten rund um KI, Automatisierung, kreative Inhalte und seinem eigenen Brand Denarixx, von Smartphones bis hin zu Automotive- und Digital-Lösungen.\n" +
				"Wenn du mehr über seine Projekte oder Vision erfahren möchtest, frag einfach nach einem bestimmten Bereich (z.B. Auto-Projekt, Smartphone, AI-Videotools).",
		},
		{
			Name:     "about.de",
			Patterns: contains("wer ist dennis"),
			Reply: "Dennis ist der Kopf hinter der Marke „Denarixx“.\n" +
				"Er kombiniert KI, Softwareentwicklung und Design, um neue Produkte und Services zu entwickeln, zum Beispiel AI-gestützte Websites, Video-Automatisierung und Konzeptfahrzeuge.\n" +
				"Wenn du etwas Konkretes über ihn wissen willst (z.B. Werdegang, Projekte, Mindset), sag mir einfach, was dich interessiert.",
		},
		{
			Name:     "about.en",
			Patterns: contains("who is dennis charles"),
			Reply: "Dennis Charles, also known as “Denarixx”, is an AI engineer and creative founder based in Germany.\n" +
				"He works on several ambitious projects that combine artificial intelligence, design, and digital products, including Denarixx smartphones, automotive concepts, AI video tools, and digital services.\n" +
				"If you’d like, I can tell you more about his background, his projects, or his long-term vision.",
		},
		{
			Name:     "about.fr",
			Patterns: contains("qui est dennis charles"),
			Reply: "Dennis Charles, aussi connu sous le nom de « Denarixx », est un ingénieur en IA et créateur digital basé en Allemagne.\n" +
				"Il développe des projets qui mélangent intelligence artificielle, design et produits créatifs, comme des concepts de smartphones, d’automobile et des outils vidéo pilotés par l’IA.\n" +
				"Si tu veux, je peux te raconter son parcours, ses projets actuels ou sa vision pour Denarixx.",
		},
		{
			Name:     "about.es",
			Patterns: contains("quién es dennis charles", "quien es dennis charles"),
			Reply: "Dennis Charles, también conocido como «Denarixx», es un ingeniero de IA y creador digital que vive en Alemania.\n" +
				"Trabaja en varios proyectos que combinan inteligencia artificial, diseño y productos creativos: desde conceptos de smartphones y automóviles hasta herramientas de vídeo automatizadas y servicios digitales.\n" +
				"Si quieres saber más sobre su historia, sus proyectos o su visión con Denarixx, dime qué te interesa.",
		},
		{
			Name:     "about.ar",
			Patterns: contains("من هو دينيس تشارلز"),
			Reply: "دينيس تشارلز، المعروف أيضًا باسم «ديناريكس» (Denarixx)، هو مهندس ذكاء اصطناعي ومبدع رقمي يعيش في ألمانيا.\n" +
				"يعمل على مشاريع تجمع بين الذكاء الاصطناعي والتصميم والمنتجات الإبداعية، مثل هواتف ذكية مفهومية، مشاريع سيارات، وأدوات فيديو وآليات رقمية قائمة على الـ AI.\n" +
				"إذا أحببت، يمكنني أن أشرح لك أكثر عن قصته، مشاريعه أو رؤيته المستقبلية.",
		},
		{
			Name:     "job.de",
			Patterns: contains("welche art von job passt am besten zu dennis als ai-engineer"),
			Reply: "Als AI-Engineer passt zu Dennis besonders gut ein Job, in dem er:\n\n" +
				"- mit kreativen KI-Lösungen arbeitet (z.B. Generative AI, Automatisierung, Chatbots, Video-/Content-Automation),\n" +
				"- Prototypen und Produkte baut (z.B. AI-Features für Apps, Smartphone- oder Automotive-Projekte),\n" +
				"- und seine eigenen Ideen und Marken wie Denarixx weiterentwickeln kann.\n\n" +
				"Ideal wären Rollen wie:\n" +
				"- AI-Engineer oder Machine-Learning-Engineer in einem innovativen Tech-Unternehmen,\n" +
				"- Creative Technologist / AI Product Developer,\n" +
				"- oder eine Position in einem Startup, in dem er an End-to-End-Lösungen arbeitet (von Idee über Prototyp bis Launch).\n\n" +
				"Grundsätzlich passt alles gut zu ihm, wo KI + Kreativität + eigene Verantwortung zusammenkommen.",
		},
	},
	Fallback: "I’m DennisChat 🤖. I can answer questions about Dennis, Denarixx, this site, and some high-level AI/creative topics.\n" +
		"Try asking things like:\n" +
		"- \"Who is Dennis Charles?\"\n" +
		"- \"Tell me about the Denarixx car project\"\n" +
		"- \"What kind of job fits Dennis as an AI engineer?\"",
}
