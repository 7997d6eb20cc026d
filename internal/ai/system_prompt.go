package ai

// Fixed system instruction attached to every upstream call. Keeps the bot
// on savings-goal topics only; it informs, it never mutates goal data.
const chatSystemPrompt = `You are a personalized savings goal tracker chatbot. NEVER answer anything else other than savings goal tracking related`
