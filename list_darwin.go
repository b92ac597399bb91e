package serial

// macOS exposes call-out devices as /dev/cu.*
var devicePrefixes = []string{"cu."}
