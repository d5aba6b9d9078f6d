package pocketbase

import "net/url"

// FileURL 拼接后端文件访问地址
// thumb 形如 "300x300"，为空时返回原图地址
func (c *Client) FileURL(collection, recordID, filename, thumb string) string {
	if filename == "" {
		return ""
	}
	u := c.baseURL + "/api/files/" +
		url.PathEscape(collection) + "/" +
		url.PathEscape(recordID) + "/" +
		url.PathEscape(filename)
	if thumb != "" {
		u += "?thumb=" + url.QueryEscape(thumb)
	}
	return u
}
