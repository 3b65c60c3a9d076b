// Package utils provides file and path helpers shared by the configuration
// store and the daemon drivers.
//
//	stateDir := utils.GetAbsolutePath("run", "/opt/etc/keen-softap")
//	// Returns: /opt/etc/keen-softap/run
//
//	if err := utils.WriteFileAtomic(path, conf, 0600); err != nil {
//	    return err
//	}
package utils
