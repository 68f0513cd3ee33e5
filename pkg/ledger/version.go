package ledger

// Version is the release of the ledger module.
const Version = "0.3.0"
