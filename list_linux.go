package serial

// Standard, USB serial adapter and USB CDC/ACM ports
var devicePrefixes = []string{"ttyS", "ttyUSB", "ttyACM"}
