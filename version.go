package comsafe

// Version is the module release reported by the command-line tools.
const Version = "0.1.0"
