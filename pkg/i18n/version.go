package i18n

// Version is stamped into generated manifests so artifacts record the
// generator release that produced them.
const Version = "0.4.0"
