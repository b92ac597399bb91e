// Package serial owns the single serial channel a mechanism-control protocol
// talks over.
//
// The line is always configured the same way: 57600 baud in both directions,
// 8 data bits, no parity, 1 stop bit, no hardware or software flow control and
// raw (non-canonical, no echo, no output processing) mode.
//
// # Basic Usage
//
//	sink := diag.New()
//	if err := sink.Init(); err != nil { // optional pmap_<timestamp>.log
//	    log.Fatal(err)
//	}
//	defer sink.Deinit()
//
//	session := serial.NewSession(serial.WithLogger(sink))
//	if err := session.Open("/dev/ttyUSB0"); err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	n, err := session.Write([]byte("PING"))  // returns once the bytes left the UART
//	buf := make([]byte, 256)
//	n, err = session.Read(buf, session.ReceiveTimeout())
//	if err == nil && n == 0 {
//	    // timed out, nothing arrived
//	}
//
// Before opening, the session reports every candidate device in /dev through
// its logger. Candidates can also be enumerated directly:
//
//	for path := range serial.Candidates("/dev") {
//	    fmt.Println(path)
//	}
//
// # Error Handling
//
// Failures are returned as *PortError. Use errors.Is with the sentinel kinds:
//
//	if errors.Is(err, serial.ErrGetAttributes) {
//	    // the device is not a terminal
//	}
//
// Code returns the underlying errno, which is what the protocol layer above
// reports to its callers.
//
// # Platform Support
//
// Linux (ttyS, ttyUSB and ttyACM devices) and macOS (cu.* devices).
package serial
