package gemini

// HistoryWithinBudget exposes historyWithinBudget to the package tests.
var HistoryWithinBudget = (*Completer).historyWithinBudget
