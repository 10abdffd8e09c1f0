// Package ntrcard drives the NTR game card security handshake.
//
// # Overview
//
// A freshly powered card answers plain text (RAW) commands. Before most of
// its contents can be read it has to be taken through two encrypted modes:
//   - Init: wake up the bus, read the chip identifier and the header
//   - InitKey1: load the KEY1 Blowfish table, activate KEY1, seed the KEY2
//     engine and check the KEY1 chip identifier
//   - InitKey2: activate KEY2 and check the KEY2 chip identifier
//
// Any chip identifier mismatch after an activation puts the card in
// StatusUnknown. Nothing but a reset followed by Init gets it out of there.
//
// # Basic Usage
//
//	// User provides the card slot (Platform) and key material
//	card := ntrcard.New(slot, keys)
//
//	if err := card.Init(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := card.InitKey1(ctx, blowfish.KeyNTR); err != nil {
//	    log.Fatal(err)
//	}
//	if err := card.InitKey2(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	page := make([]byte, protocol.DataPageSize)
//	err := card.ReadData(ctx, 0x8000, page)
//
// # Configuration Options
//
//	card := ntrcard.New(slot, keys,
//	    ntrcard.WithLogger(ntrcard.NewLogrusLogger(logrus.WithField("slot", 0))),
//	    ntrcard.WithTransitionCallback(onTransition),
//	    ntrcard.WithBootDelay(0x40000),
//	)
//
// # Logging
//
// Logs go to the logrus standard logger unless WithLogger says otherwise.
// Failures are logged with the current status and, for chip identifier
// checks, both identifiers. Plain text KEY1 commands are logged at debug
// level.
//
// # Error Handling
//
// Every operation returns an error instead of panicking:
//   - ErrNoHardwareKey2: the platform lacks a KEY2 engine; nothing changed
//   - StatusError: wrong status for the operation; nothing changed
//   - ChipIDMismatchError: handshake desync; status is StatusUnknown
//   - ResetError: the platform reset failed; nothing changed
//   - TransportError: an exchange failed; see its Status field
//
// No operation retries. Retry policy belongs to the caller.
//
// # Hardware Independence
//
// This package does NOT talk to hardware. Users implement Platform for
// their card slot; the simcard package provides a simulated cartridge for
// tests, and the trace package records exchanges for offline analysis.
package ntrcard
