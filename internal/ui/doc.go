// Package ui contains the Bubble Tea program that stands in for the device's
// screen and keyboard.
//
// Message flow:
//   - Key presses are not interpreted here. Each printable ASCII key becomes a
//     press/release pair of raw status codes pushed into the keyboard FIFO,
//     where the decode task picks them up like any other controller entry.
//     Only the quit binding is handled locally.
//   - The display flush loop sends FrameMsg values; the model keeps the latest
//     snapshot and View paints it row by row.
//   - The render engine's status mailbox is bridged into StatusMsg values for
//     the footer.
//   - FaultMsg carries an unrecoverable task error; the model shows it and quits.
package ui
