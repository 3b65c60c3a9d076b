// Package hal is the Wi-Fi hardware layer of the hotspot.
//
// Driver is what the state machine talks to. HostapdDriver implements it on
// Linux: the access point is run by hostapd, controlled through its UNIX
// control socket, the radio is located through nl80211 (mdlayher/wifi) and
// supported frequencies are read from `iw phy`.
//
// Asynchronous outcomes (the access point coming up or going down, stations
// associating or leaving) are delivered through the callbacks registered
// with RegisterEvents. Callbacks run on driver goroutines and must not block.
package hal
